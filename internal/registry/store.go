// Package registry holds the name to owner mapping.
//
// The store is a total map: it never validates names and never refuses a
// write. Length limits and the reserve-only-if-free rule are enforced by the
// policy layer in internal/app before Put is called.
package registry

import (
	"github.com/bft-labs/ans/internal/domain"
	"github.com/bft-labs/ans/internal/ports"
)

// Store maps names to owning accounts on top of a KVStore.
type Store struct {
	kv ports.KVStore
}

// New creates a Store backed by kv.
func New(kv ports.KVStore) *Store {
	return &Store{kv: kv}
}

// Exists reports whether name has a Registration.
func (s *Store) Exists(name domain.Name) bool {
	return s.kv.Contains(name)
}

// OwnerOf returns the current owner of name, or false if the name is free.
func (s *Store) OwnerOf(name domain.Name) (domain.AccountID, bool) {
	v, ok := s.kv.Get(name)
	if !ok {
		return "", false
	}
	return domain.AccountID(v), true
}

// Put inserts or overwrites the Registration for name.
func (s *Store) Put(name domain.Name, owner domain.AccountID) {
	s.kv.Put(name, []byte(owner))
}

// Registrations returns every Registration in ascending name order.
func (s *Store) Registrations() []domain.Registration {
	out := make([]domain.Registration, 0)
	s.kv.Range(func(key, value []byte) bool {
		out = append(out, domain.Registration{
			Name:  domain.Name(key).Clone(),
			Owner: domain.AccountID(value),
		})
		return true
	})
	return out
}

// Len returns the number of Registrations.
func (s *Store) Len() int {
	n := 0
	s.kv.Range(func(_, _ []byte) bool {
		n++
		return true
	})
	return n
}
