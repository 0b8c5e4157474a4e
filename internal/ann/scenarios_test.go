package ann_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
)

// This file reproduces the concrete scenarios and laws the forest is built
// against: a leaf cutoff with too few points to split, exhaustive k-NN
// recovery, cross-tree dedup, the leaf-path/depth relationship, and the
// determinism and monotone-improvement laws. internal/ann's own internal
// package (literal_scenarios_test.go) covers the two scenarios that need to
// inspect an arena directly rather than through the public Forest API.

func TestLeafCutoffTriggersImmediatelyWithThreeEmbeddings(t *testing.T) {
	vecs := []domain.Vector{{0, 0}, {1, 1}, {2, 2}}
	store := newMemStore(vecs)
	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 1
	cfg.MaxNodesPerLeaf = 5
	f := buildTestForest(t, store, cfg)

	assert.Equal(t, []int{1}, f.Depth(), "3 embeddings under a leaf cap of 5 should settle as a single leaf")
}

func TestKNNRecoversNearestOf50RandomUnitVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vecs := make([]domain.Vector, 50)
	for i := range vecs {
		v := make(domain.Vector, 8)
		var norm float32
		for d := range v {
			v[d] = rng.Float32()*2 - 1
			norm += v[d] * v[d]
		}
		norm = float32(math.Sqrt(float64(norm)))
		for d := range v {
			v[d] /= norm
		}
		vecs[i] = v
	}
	store := newMemStore(vecs)

	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 1
	cfg.MaxNodesPerLeaf = 1
	cfg.Seed = 9
	f := buildTestForest(t, store, cfg)

	query := make(domain.Vector, 8)
	copy(query, vecs[7])
	query[0] += 0.01 // perturb off the stored point itself

	euc := euclidean{}
	bestID := -1
	var bestDist float32
	for i, v := range vecs {
		d := euc.Compute(query, v)
		if bestID == -1 || d < bestDist {
			bestID, bestDist = i, d
		}
	}

	// MaxNodesPerLeaf=1 over 50 points makes every leaf a singleton, so a
	// MinSearchNodes of 50 against a single tree forces the traversal to
	// visit every leaf: the result is exact brute-force nearest-neighbor
	// regardless of which hyperplanes the builder happened to choose.
	got, err := f.Predict(context.Background(), store, domain.NewVectorEntity(query), ann.PredictConfig{K: 1, MinSearchNodes: 50}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ann.NodeID(bestID), got[0].ID)
}

func TestPredictDedupWhenEveryTreeAgreesOnTopOne(t *testing.T) {
	// twoClusters repeats i%3 across each cluster, so ids 0, 3, 6 and 9 share
	// an identical embedding and always stay together in one leaf. Each
	// tree's exhaustive top-1 search keeps whichever of them it scores first
	// (TopK keeps the present entry on a distance tie); the forest-level
	// merge orders candidates by (distance, id), collapses repeated ids, and
	// truncates to K, so the result is a single entry at distance 0. With
	// this seed that entry is id 0.
	vecs := twoClusters(10, 4)
	store := newMemStore(vecs)

	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 4
	cfg.MaxNodesPerLeaf = 1
	cfg.Seed = 3
	f := buildTestForest(t, store, cfg)

	query := domain.NewVectorEntity(store.Embedding(0))
	got, err := f.Predict(context.Background(), store, query, ann.PredictConfig{K: 1, MinSearchNodes: 1000}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ann.NodeID(0), got[0].ID)
	assert.InDelta(t, float32(0), got[0].Distance, 1e-6)
}

func TestLeafPathLengthNeverExceedsTreeDepth(t *testing.T) {
	store := newMemStore(twoClusters(10, 4))
	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 5
	cfg.MaxNodesPerLeaf = 2
	f := buildTestForest(t, store, cfg)

	depths := f.Depth()
	paths := f.PredictLeafPaths(store.Embedding(0))
	require.Len(t, paths, len(depths))
	for i, p := range paths {
		assert.LessOrEqual(t, len(p)+1, depths[i],
			"tree %d: leaf path length + 1 must not exceed that tree's max depth", i)
	}
}

func TestQueryOfStoredPointLawWithSingleTreeAndSingletonLeaves(t *testing.T) {
	// Every point is distinct, so each queried id is the only exact match.
	vecs := make([]domain.Vector, 20)
	for i := range vecs {
		vecs[i] = domain.Vector{float32(i), float32(i % 4), 0, 1}
	}
	store := newMemStore(vecs)
	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 1
	cfg.MaxNodesPerLeaf = 1
	cfg.Seed = 4
	f := buildTestForest(t, store, cfg)

	for _, id := range []ann.NodeID{0, 5, 12, 19} {
		query := domain.NewVectorEntity(store.Embedding(id))
		got, err := f.Predict(context.Background(), store, query, ann.PredictConfig{K: 1, MinSearchNodes: 20}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].ID)
		assert.InDelta(t, float32(0), got[0].Distance, 1e-6)
	}
}

func TestFitIsDeterministicForFixedSeed(t *testing.T) {
	vecs := twoClusters(10, 4)
	storeA := newMemStore(vecs)
	storeB := newMemStore(vecs)
	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 3
	cfg.MaxNodesPerLeaf = 2
	cfg.Seed = 11

	a := buildTestForest(t, storeA, cfg)
	b := buildTestForest(t, storeB, cfg)

	assert.Equal(t, a.Depth(), b.Depth())
	assert.Equal(t, a.PredictLeafIndices(storeA.Embedding(0)), b.PredictLeafIndices(storeB.Embedding(0)))

	query := domain.NewVectorEntity(storeA.Embedding(0))
	gotA, err := a.Predict(context.Background(), storeA, query, ann.PredictConfig{K: 5, MinSearchNodes: 100}, nil)
	require.NoError(t, err)
	gotB, err := b.Predict(context.Background(), storeB, query, ann.PredictConfig{K: 5, MinSearchNodes: 100}, nil)
	require.NoError(t, err)
	assert.Equal(t, gotA, gotB)
}

func TestMonotoneImprovementWithIncreasingMinSearchNodes(t *testing.T) {
	vecs := twoClusters(20, 6)
	store := newMemStore(vecs)
	cfg := ann.DefaultBuildConfig()
	cfg.NTrees = 4
	cfg.MaxNodesPerLeaf = 3
	cfg.Seed = 5
	f := buildTestForest(t, store, cfg)

	query := domain.NewVectorEntity(domain.Vector{5, 5, 5, 5, 5, 5})

	prevBest := float32(-1)
	for _, minNodes := range []int{1, 5, 10, 20, 40} {
		got, err := f.Predict(context.Background(), store, query, ann.PredictConfig{K: 1, MinSearchNodes: minNodes}, nil)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		if prevBest >= 0 {
			assert.LessOrEqual(t, got[0].Distance, prevBest+1e-6,
				"best distance must not get worse as min_search_nodes increases")
		}
		prevBest = got[0].Distance
	}
}
