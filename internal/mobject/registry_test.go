package mobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/maquette/internal/geom"
)

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	a := r.Add(NewCircle(10))
	b := r.Add(NewRectangle(4, 2))

	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.Equal(t, 2, r.Len())

	m, err := r.Get(a)
	require.NoError(t, err)
	assert.Equal(t, KindCircle, m.Kind())

	// Get hands out the stored object
	m.State.Position = geom.V(3, 4)
	st, err := r.State(a)
	require.NoError(t, err)
	assert.Equal(t, geom.V(3, 4), st.Position)

	require.NoError(t, r.Remove(a))
	assert.ErrorIs(t, r.Remove(a), ErrNotFound)
	_, err = r.Get(a)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.State(ID{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, r.Contains(a))
	assert.True(t, r.Contains(b))
}

func TestRegistryRecycledSlotGetsNewID(t *testing.T) {
	r := NewRegistry()
	a := r.Add(NewCircle(1))
	require.NoError(t, r.Remove(a))

	c := r.Add(NewCircle(2))
	assert.NotEqual(t, a, c)
	assert.False(t, r.Contains(a))

	m, err := r.Get(c)
	require.NoError(t, err)
	assert.Equal(t, Circle{Radius: 2}, m.Shape)
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := NewRegistry()
	a := r.Add(NewCircle(1))
	b := r.Add(NewCircle(2))
	c := r.Add(NewCircle(3))
	require.NoError(t, r.Remove(b))
	d := r.Add(NewCircle(4))

	assert.Equal(t, []ID{a, c, d}, r.IDs())

	var seen []ID
	r.Each(func(id ID, _ *Mobject) bool {
		seen = append(seen, id)
		return len(seen) < 2
	})
	assert.Equal(t, []ID{a, c}, seen)
}
