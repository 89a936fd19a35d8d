package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

func TestGetDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/u1", r.URL.Path)
		assert.Empty(t, r.Header.Get("X-Idempotency-Key"), "reads carry no idempotency key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":"u1","items":[{"productId":"p1","quantity":2}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	cart, err := c.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestMutationsCarryIdempotencyKey(t *testing.T) {
	var mu sync.Mutex
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Idempotency-Key")
		assert.NotEmpty(t, key)
		mu.Lock()
		keys[key] = true
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.AddCartItem(context.Background(), "u1", domain.CartItem{ProductID: "p1", Quantity: 1}))
	require.NoError(t, c.AddCartItem(context.Background(), "u1", domain.CartItem{ProductID: "p1", Quantity: 1}))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, keys, 2, "each attempt gets a fresh key")
}

func TestNon2xxSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"job already taken"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.AcceptJob(context.Background(), "j1", "d1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "job already taken", apiErr.Message)
}

func TestMalformedErrorBodyFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetWishlist(context.Background(), "u1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "something went wrong", apiErr.Message)
}

func TestIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such user"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetCart(context.Background(), "nobody")
	assert.True(t, IsNotFound(err))
}

func TestTokenAttachedWhenConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken(func(context.Context) (string, error) {
		return "tok-123", nil
	}))
	_, err := c.GetWishlist(context.Background(), "u1")
	require.NoError(t, err)
}

func TestBreakerOpensAfterConsecutiveTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // every request now fails at the transport level

	c := New(srv.URL, WithBreaker())
	for i := 0; i < 5; i++ {
		_, errGet := c.GetCart(context.Background(), "u1")
		require.Error(t, errGet)
	}

	_, err := c.GetCart(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*APIError), "open breaker fails fast, not with a server error")
}

func TestServedErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad request"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithBreaker())
	for i := 0; i < 10; i++ {
		_, err := c.GetCart(context.Background(), "u1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "breaker stays closed while the backend answers")
	}
}
