package lsh

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
)

// ForestIndex is an approximate inverted index over a Forest's leaf-bucket
// membership: every stored node's per-tree leaf indices are treated as a
// feature set and hashed into LSH bands, so nodes that land in many of the
// same leaves as a query can be retrieved by a band lookup alone, without
// walking any tree. It trades exactness for a candidate-generation step
// that costs one hash per band instead of a full best-first search.
type ForestIndex struct {
	hasher *MinHasher
	index  *LSHIndex
}

// defaultForestIndexHashes matches NewDefaultLSHIndex's bands*rows, since
// AddItem rejects signatures shorter than that.
const defaultForestIndexHashes = 32 * 4

// NewForestIndex creates an empty ForestIndex. numHashes must be at least
// cfg.Bands*cfg.Rows; a numHashes <= 0 falls back to matching
// NewDefaultLSHIndex's bands and rows.
func NewForestIndex(numHashes int, cfg LSHConfig) *ForestIndex {
	if numHashes <= 0 {
		numHashes = defaultForestIndexHashes
	}
	return &ForestIndex{
		hasher: NewMinHasherWithSeed(numHashes, 1),
		index:  NewLSHIndex(cfg),
	}
}

// BuildForestIndex indexes every node currently in es under f's leaf-bucket
// fingerprint, so Query can later retrieve approximate candidates for a
// fresh query vector without any tree traversal.
func BuildForestIndex(f *ann.Forest, es domain.EmbeddingStore, numHashes int, cfg LSHConfig) *ForestIndex {
	fi := NewForestIndex(numHashes, cfg)
	for _, id := range es.NodeIDs() {
		fi.Add(id, f.PredictLeafIndices(es.Embedding(id)))
	}
	return fi
}

// Add indexes id under the feature set derived from leafIndices (one entry
// per tree, as returned by Forest.PredictLeafIndices).
func (fi *ForestIndex) Add(id domain.NodeID, leafIndices []int) {
	sig := fi.hasher.ComputeSignature(leafFeatures(leafIndices))
	// AddItem only fails for a nil or under-length signature, neither of
	// which ComputeSignature ever produces here.
	_ = fi.index.AddItem(nodeItemID(id), sig)
}

// Query returns every indexed NodeID sharing at least one LSH band with the
// fingerprint derived from leafIndices, ascending by id. An empty result
// means no indexed node shares a band with the query; it does not mean the
// index is empty.
func (fi *ForestIndex) Query(leafIndices []int) []domain.NodeID {
	sig := fi.hasher.ComputeSignature(leafFeatures(leafIndices))
	items := fi.index.FindCandidates(sig)

	out := make([]domain.NodeID, 0, len(items))
	for _, item := range items {
		out = append(out, parseNodeItemID(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Size returns how many nodes are currently indexed.
func (fi *ForestIndex) Size() int { return fi.index.Size() }

func leafFeatures(leafIndices []int) []string {
	features := make([]string, len(leafIndices))
	for tree, leaf := range leafIndices {
		features[tree] = fmt.Sprintf("t%d:%d", tree, leaf)
	}
	return features
}

func nodeItemID(id domain.NodeID) string { return fmt.Sprintf("%d", id) }

func parseNodeItemID(item string) domain.NodeID {
	var n int
	fmt.Sscanf(item, "%d", &n)
	return domain.NodeID(n)
}
