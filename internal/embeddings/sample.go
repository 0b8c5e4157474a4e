package embeddings

import (
	"container/heap"
	"math"
	"math/rand"

	"github.com/ludo-technologies/annforest/domain"
)

// WeightedSample pairs a node id with the weight it was sampled under.
type WeightedSample struct {
	ID     domain.NodeID
	Weight float32
}

// ReservoirSample draws an unweighted sample of size n from ids using
// Algorithm R: every id has an equal chance of being retained regardless of
// how many ids there are. It makes one pass over ids and keeps only the
// n-element reservoir beyond the input slice.
func ReservoirSample(ids []domain.NodeID, n int, rng *rand.Rand) []domain.NodeID {
	sample := make([]domain.NodeID, 0, n)
	for i, id := range ids {
		if i < n {
			sample = append(sample, id)
			continue
		}
		idx := rng.Intn(i + 1)
		if idx < n {
			sample[idx] = id
		}
	}
	return sample
}

// WeightedReservoirSample draws a weighted sample of size n from items
// using the A-Res algorithm: each item's key is rand()^(1/weight), and the
// n items with the largest keys are kept, via a min-heap of the currently
// surviving keys. Higher-weight items are more likely to appear but no
// item is guaranteed to.
func WeightedReservoirSample(items []WeightedSample, n int, rng *rand.Rand) []WeightedSample {
	h := &keyedMinHeap{}
	heap.Init(h)
	for _, it := range items {
		key := rng.Float64()
		if it.Weight > 0 {
			key = math.Pow(key, 1/float64(it.Weight))
		}
		heap.Push(h, keyedItem{key: key, item: it})
		if h.Len() > n {
			heap.Pop(h)
		}
	}
	out := make([]WeightedSample, h.Len())
	for i := range out {
		out[i] = (*h)[i].item
	}
	return out
}

type keyedItem struct {
	key  float64
	item WeightedSample
}

type keyedMinHeap []keyedItem

func (h keyedMinHeap) Len() int            { return len(h) }
func (h keyedMinHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h keyedMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *keyedMinHeap) Push(x interface{}) { *h = append(*h, x.(keyedItem)) }
func (h *keyedMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
