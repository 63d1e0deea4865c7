// Package memory provides in-memory host adapters: a key-value store for the
// registry and a balance ledger implementing ports.Currency.
package memory

import (
	"sort"
	"sync"
)

// KVStore implements ports.KVStore with a map.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *KVStore) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[string(key)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// Put inserts or overwrites key.
func (s *KVStore) Put(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[string(key)] = append([]byte(nil), value...)
}

// Contains reports whether key is present.
func (s *KVStore) Contains(key []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[string(key)]
	return ok
}

// Range visits entries in ascending byte order of their keys.
// fn must not call back into the store.
func (s *KVStore) Range(fn func(key, value []byte) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !fn([]byte(k), s.data[k]) {
			return
		}
	}
}

// Reset removes every entry.
func (s *KVStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
}
