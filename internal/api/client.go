// Package api is the remote resource fetcher: a thin typed client for the
// Reel2Cart REST backend. It issues plain JSON requests against a fixed base
// URL and reports failures to the caller; it applies no retry or backoff of
// its own, and request lifetime is governed entirely by the caller's
// context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a non-2xx response carrying the server-provided message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker[[]byte]
	token   func(ctx context.Context) (string, error)
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithToken supplies the bearer token attached to every request.
func WithToken(f func(ctx context.Context) (string, error)) Option {
	return func(c *Client) { c.token = f }
}

// WithBreaker routes every request through a circuit breaker so a dead
// backend fails fast instead of piling up sockets.
func WithBreaker() Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name: "reel2cart-api",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				// A served error response still means the backend is up.
				var apiErr *APIError
				return err == nil || errors.As(err, &apiErr)
			},
		})
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			return fmt.Errorf("marshal request failed: %w", errMarshal)
		}
		reader = bytes.NewReader(payload)
	}

	req, errReq := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if errReq != nil {
		return fmt.Errorf("build request failed: %w", errReq)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Lets the backend deduplicate rapid repeated taps on the same
		// action; out-of-order delivery cannot be assumed safe otherwise.
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}
	if c.token != nil {
		tok, errTok := c.token(ctx)
		if errTok != nil {
			return fmt.Errorf("token failed: %w", errTok)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	var data []byte
	var errDo error
	if c.breaker != nil {
		data, errDo = c.breaker.Execute(func() ([]byte, error) {
			return c.roundTrip(req)
		})
	} else {
		data, errDo = c.roundTrip(req)
	}
	if errDo != nil {
		return errDo
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if errDecode := json.Unmarshal(data, out); errDecode != nil {
		return fmt.Errorf("decode response failed: %w", errDecode)
	}
	return nil
}

func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	resp, errDo := c.http.Do(req)
	if errDo != nil {
		c.logger.Warn("request failed", "method", req.Method, "path", req.URL.Path, "err", errDo)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, errDo)
	}
	defer resp.Body.Close()

	data, errRead := io.ReadAll(resp.Body)
	if errRead != nil {
		return nil, fmt.Errorf("read response failed: %w", errRead)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}
	return data, nil
}

// serverMessage pulls the "message" field out of an error body, falling back
// to a generic string when the body is empty or malformed.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "something went wrong"
}
