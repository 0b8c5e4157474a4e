// Package ann implements the random-projection forest approximate nearest
// neighbor index: a forest of arena-allocated binary trees built by
// recursively splitting an embedding set with randomized hyperplanes, and
// queried with a best-first priority search.
//
// The package depends only on the standard library and the sibling domain
// package's interfaces (EmbeddingStore, DistanceMetric, Entity); it knows
// nothing about configuration files, CLIs, or progress bars.
package ann

import "github.com/ludo-technologies/annforest/domain"

// NodeID and Vector are re-exported aliases of the domain types so callers
// of this package never need to import domain just to spell a node id.
type (
	NodeID = domain.NodeID
	Vector = domain.Vector
	Entity = domain.Entity
)

// NodeDistance pairs a NodeID with its distance from a query. Ordering is
// ascending by Distance, then ascending by ID.
type NodeDistance struct {
	Distance float32
	ID       NodeID
}

// Less implements the total order used throughout the package: ascending
// distance, ties broken by ascending id.
func (a NodeDistance) Less(b NodeDistance) bool {
	if a.Distance != b.Distance {
		return floatLess(a.Distance, b.Distance)
	}
	return a.ID < b.ID
}

// floatLess totally orders float32 values, treating NaN as greater than any
// non-NaN value (and equal to itself) so NaNs sink to the back of a sort or
// heap instead of corrupting its invariants.
func floatLess(a, b float32) bool {
	if a == a && b == b { // neither is NaN
		return a < b
	}
	if a != a && b != b { // both NaN
		return false
	}
	return b != b // a < b iff b is the NaN
}
