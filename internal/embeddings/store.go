package embeddings

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/annforest/domain"
)

// MemoryStore is a flat, fixed-dimension in-memory domain.EmbeddingStore.
// It is safe for concurrent reads; callers must not mutate vectors handed
// back by Embedding.
type MemoryStore struct {
	dims   int
	vecs   map[domain.NodeID]domain.Vector
	metric domain.DistanceMetric
}

// NewMemoryStore creates a store over vecs, keyed by NodeID, compared with
// metric. All vectors must share the same dimension; NewMemoryStore does
// not validate that, and neither does the forest's Fit (only the forest's
// Predict compares the query's length against Dims()).
func NewMemoryStore(vecs map[domain.NodeID]domain.Vector, metric domain.DistanceMetric) *MemoryStore {
	dims := 0
	for _, v := range vecs {
		dims = len(v)
		break
	}
	return &MemoryStore{dims: dims, vecs: vecs, metric: metric}
}

func (s *MemoryStore) Len() int                       { return len(s.vecs) }
func (s *MemoryStore) Dims() int                       { return s.dims }
func (s *MemoryStore) Distance() domain.DistanceMetric { return s.metric }

func (s *MemoryStore) Embedding(id domain.NodeID) domain.Vector {
	return s.vecs[id]
}

func (s *MemoryStore) ComputeDistance(a, b domain.Entity) (float32, error) {
	va, vb := s.resolve(a), s.resolve(b)
	if len(va) != len(vb) {
		return 0, domain.NewInvalidInputError(
			fmt.Sprintf("dimension mismatch: %d vs %d", len(va), len(vb)), nil)
	}
	return s.metric.Compute(va, vb), nil
}

func (s *MemoryStore) resolve(e domain.Entity) domain.Vector {
	if e.IsNode() {
		return s.vecs[e.Node]
	}
	return e.Vec
}

// NodeIDs returns every stored id in ascending order.
func (s *MemoryStore) NodeIDs() []domain.NodeID {
	ids := make([]domain.NodeID, 0, len(s.vecs))
	for id := range s.vecs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Insert adds or overwrites the embedding for id. Insert is not safe to
// call concurrently with reads or other inserts; build a store completely
// before handing it to a Forest.
func (s *MemoryStore) Insert(id domain.NodeID, v domain.Vector) {
	if s.dims == 0 {
		s.dims = len(v)
	}
	s.vecs[id] = v
}
