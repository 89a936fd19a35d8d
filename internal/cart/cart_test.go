package cart

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/api"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/syncer"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeBackend serves a mutable cart for one user.
type fakeBackend struct {
	mu     sync.Mutex
	items  []domain.CartItem
	reject bool // when set, mutations answer 409
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart/u1", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		cart := domain.Cart{UserID: "u1", Items: append([]domain.CartItem(nil), f.items...)}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(cart)
	})
	mux.HandleFunc("POST /cart/add", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.reject {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"out of stock"}`))
			return
		}
		f.items = append(f.items, domain.CartItem{ProductID: req.ProductID, Quantity: req.Quantity, Price: 100})
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /cart/update-quantity", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.reject {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"quantity not available"}`))
			return
		}
		for i := range f.items {
			if f.items[i].ProductID == req.ProductID {
				f.items[i].Quantity = req.Quantity
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /cart/remove", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID string `json:"productId"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.items {
			if f.items[i].ProductID == req.ProductID {
				f.items = append(f.items[:i], f.items[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusOK)
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

func TestSelectionDefaultsToAllItemsOnFirstLoad(t *testing.T) {
	backend := &fakeBackend{items: []domain.CartItem{
		{ProductID: "p1", Quantity: 1, Price: 50},
		{ProductID: "p2", Quantity: 2, Price: 75},
	}}
	s := newTestSync(t, backend)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, 2, s.Selection.Len())
	assert.ElementsMatch(t, []string{"p1", "p2"}, s.Selection.Keys())

	// Reconciling again must not resurrect a deselected item.
	s.Selection.Toggle("p1")
	require.NoError(t, s.Refresh(context.Background()))
	assert.False(t, s.Selection.Selected("p1"))
	assert.Equal(t, 1, s.Selection.Len())
}

func TestAddItemSettlesWithServerState(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	outcome, err := s.AddItem(context.Background(), domain.CartItem{ProductID: "p9", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, syncer.Superseded, outcome)

	cart := s.Mirror.Value()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p9", cart.Items[0].ProductID)
	assert.Equal(t, float64(100), cart.Items[0].Price, "server-priced, not the optimistic guess")
}

func TestFailedMutationIsCorrectedByRefetch(t *testing.T) {
	backend := &fakeBackend{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Price: 50}}}
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	backend.mu.Lock()
	backend.reject = true
	backend.mu.Unlock()

	outcome, err := s.UpdateQuantity(context.Background(), "p1", 5)
	assert.Error(t, err)
	assert.Equal(t, syncer.Superseded, outcome)

	// The optimistic quantity bump was overwritten by the authoritative copy.
	cart := s.Mirror.Value()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	backend := &fakeBackend{items: []domain.CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	}}
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	outcome, err := s.RemoveItem(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, syncer.Superseded, outcome)

	cart := s.Mirror.Value()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestSelectedTotal(t *testing.T) {
	backend := &fakeBackend{items: []domain.CartItem{
		{ProductID: "p1", Quantity: 2, Price: 50},
		{ProductID: "p2", Quantity: 1, Price: 75},
	}}
	s := newTestSync(t, backend)
	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, float64(175), s.SelectedTotal())

	s.Selection.Toggle("p2")
	assert.Equal(t, float64(100), s.SelectedTotal())
	assert.Len(t, s.SelectedItems(), 1)
}
