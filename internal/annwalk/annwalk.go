// Package annwalk implements a graph-walk approximate nearest neighbor
// search: repeated random-restart hill climbing over a domain.Graph's
// edges, greedily following whichever neighbor is closest to the query
// embedding. It needs no index-building step at all, at the cost of
// recall that depends entirely on how well-connected and how locally
// smooth the underlying graph is. It is a secondary, lower-quality
// alternative to the Forest in internal/ann, useful when a graph is
// available but a random-projection forest has not been built (or cannot
// be, because the embedding store itself is mutating too fast to index).
package annwalk

import (
	"container/heap"
	"math/rand"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/ann"
)

// restartProbability is the chance, checked once per step, that the walk
// abandons its current chain and starts over from a fresh random node.
const restartProbability = 0.05

// Walker finds approximate nearest neighbors by hill-climbing a graph's
// edges rather than querying a prebuilt index.
type Walker struct {
	K        int
	MaxSteps int
	Seed     uint64
}

// NewWalker creates a Walker that returns up to k neighbors, expanding at
// most maxSteps nodes in total (each expansion scores all of that node's
// unseen neighbors), using seed to drive its randomized restarts and
// starting points.
func NewWalker(k, maxSteps int, seed uint64) Walker {
	return Walker{K: k, MaxSteps: maxSteps, Seed: seed}
}

// Find hill-climbs g looking for nodes near query, returning up to w.K of
// them sorted by ascending distance.
func (w Walker) Find(query domain.Entity, g domain.Graph, es domain.EmbeddingStore) ([]ann.NodeDistance, error) {
	if g.Len() == 0 {
		return nil, domain.NewIndexError("cannot graph-walk an empty graph", nil)
	}
	if w.K <= 0 {
		return nil, domain.NewIndexError("k must be positive", nil)
	}

	rng := rand.New(rand.NewSource(int64(w.Seed)))
	return hillClimb(query, g, es, w.K, w.MaxSteps, rng)
}

func hillClimb(needle domain.Entity, g domain.Graph, es domain.EmbeddingStore, k, maxSteps int, rng *rand.Rand) ([]ann.NodeDistance, error) {
	best := ann.NewTopK(k)
	seen := make(map[domain.NodeID]bool)
	var h walkHeap

	for maxSteps > 0 {
		h = h[:0]
		// Node ids are assumed dense over [0, g.Len()); Edges(id) for an id
		// outside that range is expected to return nothing.
		start := domain.NodeID(rng.Intn(g.Len()))
		seen[start] = true
		startDist, err := es.ComputeDistance(needle, domain.NewNodeEntity(start))
		if err != nil {
			return nil, err
		}
		heap.Push(&h, ann.NodeDistance{Distance: startDist, ID: start})

		for {
			if rng.Float32() < restartProbability {
				break
			}
			if len(h) == 0 {
				break
			}
			cur := heap.Pop(&h).(ann.NodeDistance)
			best.Push(cur.ID, cur.Distance)

			for _, edge := range g.Edges(cur.ID) {
				if seen[edge] {
					continue
				}
				seen[edge] = true
				dist, err := es.ComputeDistance(needle, domain.NewNodeEntity(edge))
				if err != nil {
					return nil, err
				}
				heap.Push(&h, ann.NodeDistance{Distance: dist, ID: edge})
			}

			maxSteps--
			if maxSteps == 0 || len(h) == 0 {
				break
			}
		}
	}

	return best.IntoSorted(), nil
}

// walkHeap is a min-heap of ann.NodeDistance ordered by ascending distance,
// so the walk always continues from whichever frontier node is currently
// closest to the query.
type walkHeap []ann.NodeDistance

func (h walkHeap) Len() int            { return len(h) }
func (h walkHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h walkHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *walkHeap) Push(x interface{}) { *h = append(*h, x.(ann.NodeDistance)) }
func (h *walkHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
