package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorReplaceAndVersion(t *testing.T) {
	scope := NewScope()
	m := New[[]string](scope)

	_, loaded := m.Get()
	assert.False(t, loaded)
	assert.Equal(t, uint64(0), m.Version())

	require.True(t, m.Replace([]string{"a", "b"}))
	v, loaded := m.Get()
	assert.True(t, loaded)
	assert.Equal(t, []string{"a", "b"}, v)
	assert.Equal(t, uint64(1), m.Version())

	require.True(t, m.Update(func(s []string) []string {
		return append(s, "c")
	}))
	assert.Equal(t, []string{"a", "b", "c"}, m.Value())
	assert.Equal(t, uint64(2), m.Version())
}

func TestClosedScopeDropsLateWrites(t *testing.T) {
	scope := NewScope()
	m := New[int](scope)
	require.True(t, m.Replace(1))

	// Simulates a poll response arriving after the screen unmounted.
	scope.Close()
	assert.False(t, m.Replace(2))
	assert.False(t, m.Update(func(v int) int { return v + 10 }))

	assert.Equal(t, 1, m.Value())
	assert.Equal(t, uint64(1), m.Version())
}

func TestScopeCloseIsIdempotent(t *testing.T) {
	scope := NewScope()
	scope.Close()
	scope.Close()
	assert.True(t, scope.Closed())

	select {
	case <-scope.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestSelectionSeedsOnceOnNonEmptyLoad(t *testing.T) {
	sel := NewSelection()

	// Empty first load must not mark the selection as seeded.
	sel.SeedAll(nil)
	assert.Equal(t, 0, sel.Len())

	sel.SeedAll([]string{"p1", "p2", "p3"})
	assert.Equal(t, 3, sel.Len())
	assert.True(t, sel.Selected("p1"))

	// A later reconciliation never re-seeds.
	sel.Toggle("p2")
	sel.SeedAll([]string{"p1", "p2", "p3", "p4"})
	assert.False(t, sel.Selected("p2"))
	assert.False(t, sel.Selected("p4"))
	assert.Equal(t, 2, sel.Len())
}

func TestSelectionToggle(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("x")
	assert.True(t, sel.Selected("x"))
	sel.Toggle("x")
	assert.False(t, sel.Selected("x"))
	assert.ElementsMatch(t, []string{}, sel.Keys())
}
