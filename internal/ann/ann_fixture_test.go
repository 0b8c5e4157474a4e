package ann_test

import (
	"math"

	"github.com/ludo-technologies/annforest/domain"
)

// euclidean is the DistanceMetric used by the forest's own test fixtures.
type euclidean struct{}

func (euclidean) Name() string { return "euclidean" }

func (euclidean) Compute(a, b domain.Vector) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum)))
}

// memStore is a minimal in-memory domain.EmbeddingStore backing the package
// tests: a flat slice of vectors addressed by their index as NodeID.
type memStore struct {
	vecs []domain.Vector
	dist domain.DistanceMetric
}

func newMemStore(vecs []domain.Vector) *memStore {
	return &memStore{vecs: vecs, dist: euclidean{}}
}

func (s *memStore) Len() int                      { return len(s.vecs) }
func (s *memStore) Dims() int                      { return len(s.vecs[0]) }
func (s *memStore) Distance() domain.DistanceMetric { return s.dist }
func (s *memStore) Embedding(id domain.NodeID) domain.Vector {
	return s.vecs[int(id)]
}

func (s *memStore) ComputeDistance(a, b domain.Entity) (float32, error) {
	va, vb := s.resolve(a), s.resolve(b)
	if len(va) != len(vb) {
		return 0, domain.NewInvalidInputError("dimension mismatch", nil)
	}
	return s.dist.Compute(va, vb), nil
}

func (s *memStore) resolve(e domain.Entity) domain.Vector {
	if e.IsNode() {
		return s.vecs[int(e.Node)]
	}
	return e.Vec
}

func (s *memStore) NodeIDs() []domain.NodeID {
	ids := make([]domain.NodeID, len(s.vecs))
	for i := range s.vecs {
		ids[i] = domain.NodeID(i)
	}
	return ids
}

// twoClusters returns 2*n points: n clustered tightly around (0,0,...) and n
// clustered tightly around (10,10,...), in a space of the given dimension.
func twoClusters(n, dim int) []domain.Vector {
	vecs := make([]domain.Vector, 0, 2*n)
	for i := 0; i < n; i++ {
		v := make(domain.Vector, dim)
		for d := 0; d < dim; d++ {
			v[d] = float32(i%3) * 0.01
		}
		vecs = append(vecs, v)
	}
	for i := 0; i < n; i++ {
		v := make(domain.Vector, dim)
		for d := 0; d < dim; d++ {
			v[d] = 10 + float32(i%3)*0.01
		}
		vecs = append(vecs, v)
	}
	return vecs
}
