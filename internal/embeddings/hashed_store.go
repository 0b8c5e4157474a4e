package embeddings

import (
	"hash/fnv"

	"github.com/ludo-technologies/annforest/domain"
)

// NewHashedStore builds a deterministic MemoryStore from arbitrary string
// labels: each label is tokenized into overlapping character trigrams,
// trigrams are hashed to feature ids, and FeatureHasher projects the
// resulting bag of features into a dense dims-dimensional vector. Labels
// that share more trigrams end up closer together under Euclidean/Cosine
// distance, which makes this a convenient way to generate realistic-looking
// fixtures and demos without a trained embedding model.
func NewHashedStore(labels map[domain.NodeID]string, dims, numHashes int, metric domain.DistanceMetric) *MemoryStore {
	hasher := NewFeatureHasher(dims)
	vecs := make(map[domain.NodeID]domain.Vector, len(labels))
	for id, label := range labels {
		vecs[id] = hasher.Embed(trigramFeatures(label), numHashes)
	}
	return NewMemoryStore(vecs, metric)
}

func trigramFeatures(label string) map[uint64]float32 {
	runes := []rune(label)
	features := make(map[uint64]float32)
	if len(runes) < 3 {
		features[hashString(label)] = 1
		return features
	}
	for i := 0; i+3 <= len(runes); i++ {
		features[hashString(string(runes[i:i+3]))]++
	}
	return features
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
