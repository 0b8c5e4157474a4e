package ann

import (
	"math/rand"

	"github.com/ludo-technologies/annforest/domain"
)

// buildTree grows one tree over the given node ids using its own rng,
// returning the finished arena. The root is always the last entry.
func buildTree(cfg BuildConfig, es domain.EmbeddingStore, ids []NodeID, rng *rand.Rand) tree {
	cands := make([]candidate, len(ids))
	for i, id := range ids {
		cands[i] = candidate{id: id}
	}
	t := make(tree, 0, len(cands)/cfg.MaxNodesPerLeaf*2+1)
	fitGroup(cfg, &t, es, cands, rng)
	return t
}

// fitGroup recursively partitions cands around a chosen hyperplane,
// appending child subtrees before the split (or leaf) node that refers to
// them, and returns the index of the node it just appended. A group of
// fewer than two candidates is always a leaf: there is no second point to
// derive a split direction from.
func fitGroup(cfg BuildConfig, t *tree, es domain.EmbeddingStore, cands []candidate, rng *rand.Rand) treeIndex {
	if len(cands) < cfg.MaxNodesPerLeaf || len(cands) < 2 {
		return appendLeaf(t, cands)
	}

	var hp hyperplane
	if cfg.TestHyperplanesPerSplit > 0 {
		hp = computeSimpleSplits(cands, es, cfg.TestHyperplanesPerSplit, cfg.NumSampledNodesSplitTest, rng)
	} else {
		hp = computeNormalRP(cands, es, cfg.NumSampledNodesSplitTest, rng)
	}

	splitIdx := 0
	for i := range cands {
		above := hp.pointIsAbove(es.Embedding(cands[i].id))
		cands[i].above = above
		if !above {
			splitIdx++
		}
	}

	sortBinary(cands)
	below, above := cands[:splitIdx], cands[splitIdx:]

	if len(above) > 0 && len(below) > 0 {
		belowIdx := fitGroup(cfg, t, es, below, rng)
		aboveIdx := fitGroup(cfg, t, es, above, rng)
		*t = append(*t, treeNode{kind: nodeSplit, hp: hp, above: aboveIdx, below: belowIdx})
		return treeIndex(len(*t) - 1)
	}

	// A degenerate hyperplane put every candidate on one side; stop
	// splitting this group and emit it as a single leaf instead of
	// recursing forever on an unchanged candidate set.
	return appendLeaf(t, cands)
}

func appendLeaf(t *tree, cands []candidate) treeIndex {
	indices := make([]NodeID, len(cands))
	for i, c := range cands {
		indices[i] = c.id
	}
	*t = append(*t, treeNode{kind: nodeLeaf, indices: indices})
	return treeIndex(len(*t) - 1)
}
