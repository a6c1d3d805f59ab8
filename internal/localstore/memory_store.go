package localstore

import (
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store. Contents are lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	used  int64
	quota int64 // zero means unlimited
}

// NewMemoryStore returns an empty MemoryStore. A quota of zero disables the limit.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		quota: quota,
	}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.used - int64(len(s.items[key])) + int64(len(value))
	if s.quota > 0 && next > s.quota {
		return ErrQuotaExceeded
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.items[key] = v
	s.used = next
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.items[key]; ok {
		s.used -= int64(len(v))
		delete(s.items, key)
	}
	return nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Used reports the number of value bytes currently stored.
func (s *MemoryStore) Used() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

var _ Store = (*MemoryStore)(nil)
