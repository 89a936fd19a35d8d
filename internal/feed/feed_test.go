package feed

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeBackend struct {
	mu        sync.Mutex
	reels     map[int][]domain.Reel // page -> reels
	following []string
	failLike  bool
	failNext  bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/reels", func(w http.ResponseWriter, r *http.Request) {
		page := 0
		if p := r.URL.Query().Get("page"); p == "1" {
			page = 1
		}
		f.mu.Lock()
		out := append([]domain.Reel(nil), f.reels[page]...)
		failNext := f.failNext
		f.mu.Unlock()
		if failNext && page > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"server error"}`))
			return
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /users/u1/following", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		out := append([]string(nil), f.following...)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /products/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failLike {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"like failed"}`))
			return
		}
		w.Write([]byte(`{"liked":true}`))
	})
	mux.HandleFunc("POST /products/{id}/comment", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
			Text   string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode([]domain.Comment{
			{ID: "c1", UserID: "other", Text: "earlier comment", CreatedAt: time.Now()},
			{ID: "c2", UserID: req.UserID, Text: req.Text, CreatedAt: time.Now()},
		})
	})
	mux.HandleFunc("POST /sellers/{id}/follow", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failLike {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"follow failed"}`))
			return
		}
		w.Write([]byte(`{"following":true}`))
	})
	return mux
}

func newTestSync(t *testing.T, backend *fakeBackend) *Synchronizer {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	s := New(api.New(srv.URL), "u1", quiet)
	t.Cleanup(s.Close)
	return s
}

func seedBackend() *fakeBackend {
	return &fakeBackend{
		reels: map[int][]domain.Reel{
			0: {
				{ID: "r1", SellerID: "sel1", Likes: 10},
				{ID: "r2", SellerID: "sel2", Likes: 3},
			},
			1: {
				{ID: "r3", SellerID: "sel1", Likes: 7},
			},
		},
	}
}

func TestToggleLikeConfirmed(t *testing.T) {
	s := newTestSync(t, seedBackend())
	require.NoError(t, s.Refresh(context.Background()))

	outcome, err := s.ToggleLike(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, syncer.Confirmed, outcome)

	st := s.Mirror.Value()
	assert.True(t, st.Reels[0].Liked)
	assert.Equal(t, 11, st.Reels[0].Likes)
}

func TestToggleLikeRevertsOnFailure(t *testing.T) {
	backend := seedBackend()
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	backend.mu.Lock()
	backend.failLike = true
	backend.mu.Unlock()

	outcome, err := s.ToggleLike(context.Background(), "r1")
	assert.Error(t, err)
	assert.Equal(t, syncer.Reverted, outcome)

	st := s.Mirror.Value()
	assert.False(t, st.Reels[0].Liked, "like state back to pre-action value")
	assert.Equal(t, 10, st.Reels[0].Likes)
}

func TestToggleFollowRevertsOnFailure(t *testing.T) {
	backend := seedBackend()
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	outcome, err := s.ToggleFollow(context.Background(), "sel1")
	require.NoError(t, err)
	assert.Equal(t, syncer.Confirmed, outcome)
	assert.True(t, s.Mirror.Value().Following["sel1"])

	backend.mu.Lock()
	backend.failLike = true
	backend.mu.Unlock()

	outcome, err = s.ToggleFollow(context.Background(), "sel1")
	assert.Error(t, err)
	assert.Equal(t, syncer.Reverted, outcome)
	assert.True(t, s.Mirror.Value().Following["sel1"], "still following after failed unfollow")
}

func TestAddCommentReplacesListWithServerCopy(t *testing.T) {
	s := newTestSync(t, seedBackend())
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.AddComment(context.Background(), "r2", "love this"))

	st := s.Mirror.Value()
	require.Len(t, st.Reels[1].Comments, 2)
	assert.Equal(t, "love this", st.Reels[1].Comments[1].Text)
	assert.Equal(t, "u1", st.Reels[1].Comments[1].UserID)
}

func TestLoadMoreAppends(t *testing.T) {
	s := newTestSync(t, seedBackend())
	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, s.Mirror.Value().Reels, 2)

	require.NoError(t, s.LoadMore(context.Background()))
	st := s.Mirror.Value()
	require.Len(t, st.Reels, 3)
	assert.Equal(t, "r3", st.Reels[2].ID)
	assert.Equal(t, 2, st.NextPage)
}

func TestLoadMoreFailureKeepsFeed(t *testing.T) {
	backend := seedBackend()
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	backend.mu.Lock()
	backend.failNext = true
	backend.mu.Unlock()

	assert.Error(t, s.LoadMore(context.Background()))
	st := s.Mirror.Value()
	assert.Len(t, st.Reels, 2)
	assert.Equal(t, 1, st.NextPage)
}
