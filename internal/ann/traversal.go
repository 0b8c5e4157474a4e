package ann

import (
	"container/heap"

	"github.com/ludo-technologies/annforest/domain"
)

// hpEntry is one pending branch in a best-first tree traversal: idx is the
// arena index still to visit, and priority is its offset distance from the
// query (0 for a branch the query already falls inside).
type hpEntry struct {
	priority float32
	idx      treeIndex
}

// hpHeap is a min-heap of hpEntry ordered by ascending priority, so the
// traversal always expands the branch closest to the query next. Equal
// priorities pop the higher arena index first.
type hpHeap []hpEntry

func (h hpHeap) Len() int { return len(h) }
func (h hpHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return floatLess(h[i].priority, h[j].priority)
	}
	return h[i].idx > h[j].idx
}
func (h hpHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *hpHeap) Push(x interface{}) {
	*h = append(*h, x.(hpEntry))
}
func (h *hpHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// treePredict runs a best-first search of t for the k nodes closest to emb,
// visiting at least minSearchNodes candidates (but always at least k) before
// returning. Branches are prioritized by their offset distance from emb, so
// the side of each split the query actually falls on is always explored
// before its sibling. It returns an error if the query's dimension does not
// match the store's.
func treePredict(t tree, es domain.EmbeddingStore, query Entity, k, minSearchNodes int) ([]NodeDistance, error) {
	if minSearchNodes < k {
		minSearchNodes = k
	}

	returnSet := NewTopK(k)
	h := make(hpHeap, 0, k*2)
	heap.Push(&h, hpEntry{priority: 0, idx: t.rootIndex()})

	visited := 0
	for h.Len() > 0 {
		entry := heap.Pop(&h).(hpEntry)
		node := t[entry.idx]

		switch node.kind {
		case nodeLeaf:
			for _, id := range node.indices {
				dist, err := es.ComputeDistance(domain.NewNodeEntity(id), query)
				if err != nil {
					return nil, err
				}
				returnSet.Push(id, dist)
			}
			visited += len(node.indices)
		case nodeSplit:
			dist := node.hp.distance(queryVector(es, query))
			var aboveDist, belowDist float32
			if dist >= 0 {
				belowDist = abs32(dist)
			} else {
				aboveDist = abs32(dist)
			}
			heap.Push(&h, hpEntry{priority: aboveDist, idx: node.above})
			heap.Push(&h, hpEntry{priority: belowDist, idx: node.below})
		}

		if visited >= minSearchNodes {
			break
		}
	}

	return returnSet.IntoSorted(), nil
}

// queryVector resolves an Entity to the raw vector a hyperplane can be
// evaluated against, fetching from the store when the entity is a stored
// node rather than a raw query vector.
func queryVector(es domain.EmbeddingStore, e domain.Entity) Vector {
	if e.IsNode() {
		return es.Embedding(e.Node)
	}
	return e.Vec
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
