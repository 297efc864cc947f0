package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store, safe for concurrent use.
type MemStore struct {
	mu    sync.RWMutex
	byKey map[string]*Result
	order []string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{byKey: make(map[string]*Result)}
}

// Get implements Store.
func (s *MemStore) Get(key string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byKey[key]
	if !ok {
		return nil, nil
	}
	return clone(r), nil
}

// Put implements Store.
func (s *MemStore) Put(r *Result) error {
	c := clone(r)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[c.Key]; ok {
		s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == c.Key })
	}
	s.byKey[c.Key] = c
	s.order = append(s.order, c.Key)
	return nil
}

// List implements Store.
func (s *MemStore) List() ([]*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Result, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, clone(s.byKey[k]))
	}
	return out, nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }

func clone(r *Result) *Result {
	c := *r
	c.Triggers = slices.Clone(r.Triggers)
	return &c
}
