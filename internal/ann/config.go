package ann

// BuildConfig controls how Fit grows each tree in the forest.
type BuildConfig struct {
	// NTrees is the number of independently-built trees in the forest.
	NTrees int

	// MaxNodesPerLeaf bounds how many candidates a leaf may hold before the
	// builder stops splitting it further.
	MaxNodesPerLeaf int

	// TestHyperplanesPerSplit selects the split heuristic: a value > 0 uses
	// the best-of-N pseudo-k-means hyperplane search, trying this many
	// candidate directions per split and keeping the most balanced one. A
	// value of 0 falls back to a single random-projection split.
	TestHyperplanesPerSplit int

	// NumSampledNodesSplitTest bounds how many candidates are sampled both
	// to build a candidate split direction and to score it.
	NumSampledNodesSplitTest int

	// Seed is the base RNG seed. Tree i is seeded with Seed+i so trees are
	// reproducible individually and independent of each other.
	Seed uint64

	// NodeIDs restricts fitting to this subset of the store's node ids. A
	// nil slice fits over every id in the store.
	NodeIDs []NodeID
}

// DefaultBuildConfig returns the same defaults the random-projection forest
// uses when a caller omits the tunables: 5 candidate hyperplanes per split,
// 30 sampled candidates per split test.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		NTrees:                   10,
		MaxNodesPerLeaf:          10,
		TestHyperplanesPerSplit:  5,
		NumSampledNodesSplitTest: 30,
		Seed:                     0,
	}
}

// PredictConfig controls a single nearest-neighbor query against a Forest.
type PredictConfig struct {
	// K is the number of nearest neighbors to return.
	K int

	// MinSearchNodes is the minimum number of leaf candidates to inspect,
	// summed across a single tree's traversal, before that tree's search
	// stops early. A value <= 0 defaults to NumTrees()*K when the query
	// runs through Forest.Predict.
	MinSearchNodes int
}
