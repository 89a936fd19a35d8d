package syncer

import "sync"

// KeyGate serializes mutations per resource key so that rapid repeated taps
// on the same item (double-tap quantity changes) reach the backend in order
// instead of racing. Different keys proceed independently. Entries are
// refcounted and removed on the last unlock, so the gate stays small no
// matter how many keys a long session touches.
type KeyGate struct {
	mu    sync.Mutex
	locks map[string]*gateEntry
}

type gateEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyGate() *KeyGate {
	return &KeyGate{locks: make(map[string]*gateEntry)}
}

func (g *KeyGate) Lock(key string) {
	g.mu.Lock()
	e, ok := g.locks[key]
	if !ok {
		e = &gateEntry{}
		g.locks[key] = e
	}
	e.refs++
	g.mu.Unlock()
	e.mu.Lock()
}

func (g *KeyGate) Unlock(key string) {
	g.mu.Lock()
	e := g.locks[key]
	if e == nil {
		g.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(g.locks, key)
	}
	g.mu.Unlock()
	e.mu.Unlock()
}
