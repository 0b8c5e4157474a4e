package ann_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/annforest/internal/ann"
)

func TestTopKKeepsSmallestK(t *testing.T) {
	k := ann.NewTopK(3)
	k.Push(1, 5.0)
	k.Push(2, 1.0)
	k.Push(3, 9.0)
	k.Push(4, 2.0)
	k.Push(5, 0.5)

	got := k.IntoSorted()
	assert.Len(t, got, 3)
	assert.Equal(t, ann.NodeID(5), got[0].ID)
	assert.Equal(t, ann.NodeID(2), got[1].ID)
	assert.Equal(t, ann.NodeID(4), got[2].ID)
}

func TestTopKZeroCapacityStaysEmpty(t *testing.T) {
	k := ann.NewTopK(0)
	k.Push(1, 1.0)
	assert.Equal(t, 0, k.Len())
}

func TestTopKFewerThanKEntries(t *testing.T) {
	k := ann.NewTopK(5)
	k.Push(1, 2.0)
	k.Push(2, 1.0)

	got := k.IntoSorted()
	assert.Len(t, got, 2)
	assert.Equal(t, ann.NodeID(2), got[0].ID)
	assert.Equal(t, ann.NodeID(1), got[1].ID)
}

func TestTopKExtendRespectsCapacity(t *testing.T) {
	a := ann.NewTopK(2)
	a.Push(1, 1.0)
	a.Push(2, 2.0)

	b := ann.NewTopK(2)
	b.Push(3, 0.5)
	b.Push(4, 3.0)

	a.Extend(b)
	got := a.IntoSorted()
	assert.Len(t, got, 2)
	assert.Equal(t, ann.NodeID(3), got[0].ID)
	assert.Equal(t, ann.NodeID(1), got[1].ID)
}
