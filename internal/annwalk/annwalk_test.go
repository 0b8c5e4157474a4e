package annwalk_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/annwalk"
	"github.com/ludo-technologies/annforest/internal/graph"
)

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

type store struct {
	vecs map[domain.NodeID]domain.Vector
}

func (s *store) Len() int                       { return len(s.vecs) }
func (s *store) Dims() int                       { return len(s.vecs[0]) }
func (s *store) Distance() domain.DistanceMetric { return euclidean{} }
func (s *store) Embedding(id domain.NodeID) domain.Vector {
	return s.vecs[id]
}
func (s *store) ComputeDistance(a, b domain.Entity) (float32, error) {
	va, vb := s.resolve(a), s.resolve(b)
	if len(va) != len(vb) {
		return 0, domain.NewInvalidInputError("dimension mismatch", nil)
	}
	return euclidean{}.Compute(va, vb), nil
}
func (s *store) resolve(e domain.Entity) domain.Vector {
	if e.IsNode() {
		return s.vecs[e.Node]
	}
	return e.Vec
}
func (s *store) NodeIDs() []domain.NodeID {
	ids := make([]domain.NodeID, 0, len(s.vecs))
	for id := range s.vecs {
		ids = append(ids, id)
	}
	return ids
}

// buildLine connects nodes 0..n-1 in a line graph, with embeddings spaced
// one unit apart along a single axis, so hill climbing toward node 0 should
// reliably find low-index nodes.
func buildLine(n int) (*graph.AdjacencyGraph, *store) {
	g := graph.NewAdjacencyGraph()
	s := &store{vecs: make(map[domain.NodeID]domain.Vector, n)}
	for i := 0; i < n; i++ {
		s.vecs[domain.NodeID(i)] = domain.Vector{float32(i)}
		if i > 0 {
			g.AddEdge(domain.NodeID(i), domain.NodeID(i-1))
		}
		if i < n-1 {
			g.AddEdge(domain.NodeID(i), domain.NodeID(i+1))
		}
	}
	return g, s
}

func TestWalkerFindsNeighborsNearQuery(t *testing.T) {
	g, s := buildLine(50)
	w := annwalk.NewWalker(5, 500, 42)

	got, err := w.Find(domain.NewVectorEntity(domain.Vector{0}), g, s)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for _, nd := range got {
		assert.Less(t, int(nd.ID), 20, "expected the walk to settle near the low end of the line")
	}
}

func TestWalkerRejectsEmptyGraph(t *testing.T) {
	g := graph.NewAdjacencyGraph()
	s := &store{vecs: map[domain.NodeID]domain.Vector{}}
	w := annwalk.NewWalker(3, 10, 1)
	_, err := w.Find(domain.NewVectorEntity(domain.Vector{0}), g, s)
	assert.Error(t, err)
}

func TestWalkerRejectsNonPositiveK(t *testing.T) {
	g, s := buildLine(5)
	w := annwalk.NewWalker(0, 10, 1)
	_, err := w.Find(domain.NewVectorEntity(domain.Vector{0}), g, s)
	assert.Error(t, err)
}
