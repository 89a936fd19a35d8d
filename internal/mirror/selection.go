package mirror

import "sync"

// Selection is the checkout selection set: an in-memory set of resource keys
// independent of the mirrored collection's own membership. It is seeded to
// "all items" on the first non-empty load and never recomputed afterwards
// unless the user acts. Like the mirror, it lives and dies with the screen.
type Selection struct {
	mu     sync.Mutex
	keys   map[string]struct{}
	seeded bool
}

func NewSelection() *Selection {
	return &Selection{keys: make(map[string]struct{})}
}

// SeedAll selects every given key, but only on the first call with a
// non-empty key list. Later loads leave the user's choices alone.
func (s *Selection) SeedAll(keys []string) {
	if len(keys) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return
	}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	s.seeded = true
}

func (s *Selection) Toggle(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
	} else {
		s.keys[key] = struct{}{}
	}
	s.seeded = true
}

func (s *Selection) Selected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

func (s *Selection) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
