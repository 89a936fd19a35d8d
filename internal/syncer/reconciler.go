// Package syncer drives the optimistic-mutation-plus-reconciliation cycle
// shared by every resource screen: an optimistic local change is applied to
// the mirror immediately, the mutation request goes out, and a reconciler
// periodically (or on demand) re-fetches the authoritative state and
// replaces the mirror wholesale.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/mirror"
)

// Polling intervals used across the app's screens.
const (
	ActiveChatInterval    = 2 * time.Second
	ChatListInterval      = 5 * time.Second
	DashboardInterval     = 10 * time.Second
	NotificationsInterval = 30 * time.Second
)

// Reconciler re-fetches one resource and replaces its mirror. Triggers are a
// fixed-interval ticker (interval 0 disables it), Kick for focus and
// post-mutation refreshes, and direct Refresh calls. Concurrent triggers for
// the same reconciler collapse into one in-flight fetch.
type Reconciler[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	mir      *mirror.Mirror[T]
	interval time.Duration
	onApply  func(T)
	logger   *slog.Logger
	sf       singleflight.Group
	kick     chan struct{}
}

type ReconcilerOption[T any] func(*Reconciler[T])

// WithInterval enables interval polling. Zero leaves the reconciler
// kick-driven only.
func WithInterval[T any](d time.Duration) ReconcilerOption[T] {
	return func(r *Reconciler[T]) { r.interval = d }
}

// WithOnApply runs f after every applied snapshot, outside the mirror lock.
func WithOnApply[T any](f func(T)) ReconcilerOption[T] {
	return func(r *Reconciler[T]) { r.onApply = f }
}

func WithLogger[T any](l *slog.Logger) ReconcilerOption[T] {
	return func(r *Reconciler[T]) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewReconciler[T any](mir *mirror.Mirror[T], fetch func(ctx context.Context) (T, error), opts ...ReconcilerOption[T]) *Reconciler[T] {
	r := &Reconciler[T]{
		fetch:  fetch,
		mir:    mir,
		logger: slog.Default(),
		kick:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh performs one reconciliation now. A failed fetch leaves the
// previous mirror value in place and is logged; the caller may surface it.
// Concurrent Refresh calls share a single fetch.
func (r *Reconciler[T]) Refresh(ctx context.Context) error {
	_, err, _ := r.sf.Do("refresh", func() (interface{}, error) {
		v, errFetch := r.fetch(ctx)
		if errFetch != nil {
			r.logger.Warn("reconcile fetch failed, keeping stale value", "err", errFetch)
			return nil, errFetch
		}
		if !r.mir.Replace(v) {
			// Owning scope closed while the fetch was in flight.
			return nil, nil
		}
		if r.onApply != nil {
			r.onApply(v)
		}
		return nil, nil
	})
	return err
}

// Kick requests an out-of-band reconciliation from the running loop. It
// never blocks; kicks arriving while one is pending coalesce.
func (r *Reconciler[T]) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, reconciling on every tick and kick.
// It performs one initial refresh on entry.
func (r *Reconciler[T]) Run(ctx context.Context) {
	_ = r.Refresh(ctx)

	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_ = r.Refresh(ctx)
		case <-r.kick:
			_ = r.Refresh(ctx)
		}
	}
}
