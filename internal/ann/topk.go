package ann

import "container/heap"

// TopK is a bounded collector that keeps the k smallest NodeDistances seen.
// It is backed by a max-heap (container/heap) of capacity k: pushing a new
// candidate that is closer than the current worst entry evicts that worst
// entry in O(log k), and draining into ascending order is a single sort.
type TopK struct {
	k int
	h ndMaxHeap
}

// NewTopK creates a collector that retains at most k entries.
func NewTopK(k int) *TopK {
	return &TopK{
		k: k,
		h: make(ndMaxHeap, 0, k),
	}
}

// Push inserts id/distance if there is spare capacity, or if distance is
// strictly smaller than the current worst (maximum) entry. Ties keep the
// entry already present.
func (t *TopK) Push(id NodeID, distance float32) {
	if t.k <= 0 {
		return
	}
	nd := NodeDistance{Distance: distance, ID: id}
	if len(t.h) < t.k {
		heap.Push(&t.h, nd)
		return
	}
	if len(t.h) > 0 && floatLess(nd.Distance, t.h[0].Distance) {
		t.h[0] = nd
		heap.Fix(&t.h, 0)
	}
}

// Len returns the number of entries currently held.
func (t *TopK) Len() int { return len(t.h) }

// Extend folds another collector's entries into this one, respecting this
// collector's capacity bound.
func (t *TopK) Extend(other *TopK) {
	if other == nil {
		return
	}
	for _, nd := range other.h {
		t.Push(nd.ID, nd.Distance)
	}
}

// IntoSorted drains the collector and returns its entries in ascending
// order of distance, ties broken by ascending id.
func (t *TopK) IntoSorted() []NodeDistance {
	out := make([]NodeDistance, len(t.h))
	copy(out, t.h)
	sortNodeDistances(out)
	return out
}

// ndMaxHeap is a container/heap max-heap ordered by NodeDistance.Less: the
// root (index 0) is always the current *worst* (largest distance) entry, so
// a full TopK can evict it in O(log k) when a better candidate arrives.
type ndMaxHeap []NodeDistance

func (h ndMaxHeap) Len() int { return len(h) }
func (h ndMaxHeap) Less(i, j int) bool {
	// Max-heap: the "greater" element (by our ascending NodeDistance order)
	// sits on top, so invert Less.
	return h[j].Less(h[i])
}
func (h ndMaxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *ndMaxHeap) Push(x interface{}) {
	*h = append(*h, x.(NodeDistance))
}

func (h *ndMaxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func sortNodeDistances(nd []NodeDistance) {
	// Insertion sort is fine: k is small (typically tens), and this runs
	// once per traversal/merge.
	for i := 1; i < len(nd); i++ {
		for j := i; j > 0 && nd[j].Less(nd[j-1]); j-- {
			nd[j], nd[j-1] = nd[j-1], nd[j]
		}
	}
}
