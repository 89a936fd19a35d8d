// Package events subscribes to the backend's per-resource server-sent event
// stream and nudges the matching reconcilers when a resource changes.
// Interval polling stays on as the fallback: a broken stream degrades to the
// reconcilers' own tickers, it never loses data.
package events

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Stream struct {
	url        string
	http       *http.Client
	logger     *slog.Logger
	backoffMin time.Duration
	backoffMax time.Duration

	// handlers are registered before Run and never mutated afterwards.
	handlers map[string]func()
}

type Option func(*Stream)

func WithHTTPClient(h *http.Client) Option {
	return func(s *Stream) { s.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Stream) { s.logger = l }
}

func NewStream(url string, opts ...Option) *Stream {
	s := &Stream{
		url:        url,
		http:       http.DefaultClient,
		logger:     slog.Default(),
		backoffMin: time.Second,
		backoffMax: 30 * time.Second,
		handlers:   make(map[string]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// On registers the kick to run when the named topic fires. Register all
// handlers before calling Run.
func (s *Stream) On(topic string, kick func()) {
	s.handlers[topic] = kick
}

// Run connects and dispatches until ctx is cancelled, reconnecting with
// exponential backoff after stream failures. A connection that outlives the
// current backoff counts as healthy and restarts the retry schedule.
func (s *Stream) Run(ctx context.Context) {
	backoff := s.backoffMin
	for {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(start) > backoff {
			backoff = s.backoffMin
		}
		if err != nil {
			s.logger.Warn("event stream dropped, falling back to polling", "err", err, "retry_in", backoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > s.backoffMax {
			backoff = s.backoffMax
		}
	}
}

func (s *Stream) consume(ctx context.Context) error {
	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if errReq != nil {
		return errReq
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, errDo := s.http.Do(req)
	if errDo != nil {
		return errDo
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream: unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var topic string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			topic = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case line == "":
			// Blank line terminates one event.
			if kick, ok := s.handlers[topic]; ok && topic != "" {
				kick()
			}
			topic = ""
		}
	}
	return scanner.Err()
}
