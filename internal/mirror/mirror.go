// Package mirror holds the screen-scoped in-memory copy of a server-owned
// resource. A mirror is bound to a Scope matching the owning screen's
// lifetime; once the scope closes, late fetch results are dropped instead of
// written, so a response arriving after unmount can never resurrect state.
package mirror

import (
	"sync"
)

// Scope represents the lifetime of the screen (or other consumer) that owns
// one or more mirrors. Closing it is idempotent.
type Scope struct {
	once sync.Once
	done chan struct{}
}

func NewScope() *Scope {
	return &Scope{done: make(chan struct{})}
}

func (s *Scope) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Scope) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done exposes the scope's closing for select loops.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

// Mirror is a versioned snapshot of a single resource. Writes are wholesale
// replacements or synchronous read-modify-write updates; there is no
// incremental merge. Concurrent writers are last-write-wins by arrival.
type Mirror[T any] struct {
	mu      sync.RWMutex
	scope   *Scope
	value   T
	version uint64
	loaded  bool
}

func New[T any](scope *Scope) *Mirror[T] {
	return &Mirror[T]{scope: scope}
}

// Get returns the current snapshot and whether anything has been loaded yet.
func (m *Mirror[T]) Get() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.loaded
}

// Value returns the current snapshot, zero-valued before the first load.
func (m *Mirror[T]) Value() T {
	v, _ := m.Get()
	return v
}

// Version increments on every applied write. Useful for observing whether a
// write actually landed.
func (m *Mirror[T]) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Replace installs a fresh authoritative snapshot, discarding any diverging
// optimistic state. It reports false, without writing, when the owning scope
// has already closed.
func (m *Mirror[T]) Replace(v T) bool {
	if m.scope.Closed() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.version++
	m.loaded = true
	return true
}

// Update applies f to the current snapshot. Used for optimistic mutations;
// the same scope guard applies.
func (m *Mirror[T]) Update(f func(T) T) bool {
	if m.scope.Closed() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = f(m.value)
	m.version++
	m.loaded = true
	return true
}
