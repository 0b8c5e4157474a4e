package embeddings_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/annforest/domain"
	"github.com/ludo-technologies/annforest/internal/embeddings"
)

func TestReservoirSampleRespectsSize(t *testing.T) {
	ids := make([]domain.NodeID, 100)
	for i := range ids {
		ids[i] = domain.NodeID(i)
	}
	rng := rand.New(rand.NewSource(1))
	sample := embeddings.ReservoirSample(ids, 10, rng)
	assert.Len(t, sample, 10)
}

func TestReservoirSampleSmallerThanNReturnsAll(t *testing.T) {
	ids := []domain.NodeID{1, 2, 3}
	rng := rand.New(rand.NewSource(1))
	sample := embeddings.ReservoirSample(ids, 10, rng)
	assert.Len(t, sample, 3)
}

func TestWeightedReservoirSampleRespectsSize(t *testing.T) {
	items := make([]embeddings.WeightedSample, 50)
	for i := range items {
		items[i] = embeddings.WeightedSample{ID: domain.NodeID(i), Weight: 1}
	}
	rng := rand.New(rand.NewSource(2))
	sample := embeddings.WeightedReservoirSample(items, 5, rng)
	assert.Len(t, sample, 5)
}

func TestWeightedReservoirSampleFavorsHeavierItems(t *testing.T) {
	items := []embeddings.WeightedSample{
		{ID: 1, Weight: 0.001},
		{ID: 2, Weight: 1000},
	}
	rng := rand.New(rand.NewSource(3))

	heavyWins := 0
	for i := 0; i < 50; i++ {
		sample := embeddings.WeightedReservoirSample(items, 1, rng)
		if sample[0].ID == 2 {
			heavyWins++
		}
	}
	assert.Greater(t, heavyWins, 40)
}
