package resource

import "github.com/nexargate/resource-engine/pkg/types"

// Storage is a persistent key-value map identified by a storage id, with
// an authority address. Keys and values are raw SBOR byte sequences; the
// caller (internal/host) is responsible for walking them with the
// reject classification before a write, since Storage itself has no
// access to the walker.
type Storage struct {
	ID        types.SID
	Authority types.Address
	entries   map[string][]byte
}

// NewStorage creates an empty storage map authorized to the current
// package.
func NewStorage(id types.SID, authority types.Address) *Storage {
	return &Storage{ID: id, Authority: authority, entries: make(map[string][]byte)}
}

// Get reads the value stored at key; ok is false if absent.
func (s *Storage) Get(key []byte) (value []byte, ok bool) {
	v, present := s.entries[string(key)]
	return v, present
}

// Put writes value at key, overwriting any prior entry.
func (s *Storage) Put(key, value []byte) {
	s.entries[string(key)] = value
}

// Entries exposes the backing map for the ledger's snapshot encoder.
func (s *Storage) Entries() map[string][]byte { return s.entries }

// RestoreStorage rebuilds a storage map from persisted entries, used by
// the ledger when loading a snapshot.
func RestoreStorage(id types.SID, authority types.Address, entries map[string][]byte) *Storage {
	if entries == nil {
		entries = make(map[string][]byte)
	}
	return &Storage{ID: id, Authority: authority, entries: entries}
}
