package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, KeyUserLanguage)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyUserLanguage, "hi"))
	v, err := s.Get(ctx, KeyUserLanguage)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	// Last write wins.
	require.NoError(t, s.Set(ctx, KeyUserLanguage, "ta"))
	v, err = s.Get(ctx, KeyUserLanguage)
	require.NoError(t, err)
	assert.Equal(t, "ta", v)

	require.NoError(t, s.Delete(ctx, KeyUserLanguage))
	_, err = s.Get(ctx, KeyUserLanguage)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionDegradesToGuest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := s.Session(ctx)
	assert.True(t, sess.Guest())

	// Corrupt entries also degrade instead of erroring.
	require.NoError(t, s.Set(ctx, KeyUserInfo, "{not json"))
	sess = s.Session(ctx)
	assert.True(t, sess.Guest())
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := domain.Session{UserID: "u1", Name: "Kishore", Email: "k@example.com", Role: "buyer"}
	require.NoError(t, s.SaveSession(ctx, want))

	got := s.Session(ctx)
	assert.False(t, got.Guest())
	assert.Equal(t, want, got)

	require.NoError(t, s.ClearSession(ctx))
	assert.True(t, s.Session(ctx).Guest())
}

func TestRegionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Region(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	want := domain.Region{Code: "USD", Name: "United States", Flag: "🇺🇸"}
	require.NoError(t, s.SaveRegion(ctx, want))

	got, err := s.Region(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
