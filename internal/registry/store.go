// Package registry owns the directory of nodes and their catalogs.
//
// Ownership boundary:
// - node record storage (process lifetime, no expiry, no heartbeat)
// - ownership lookup by sequence name
// - the HTTP surface for registration and lookup
// - the client nodes use to register and to discover owners
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mhodnik/seqnet/internal/protocol"
)

// Store holds the registered node records. Registration replaces the
// record for an address wholesale; a node that crashes stays listed until
// the registry process restarts.
type Store struct {
	mu   sync.RWMutex
	recs map[string]protocol.NodeRecord
}

func NewStore() *Store {
	return &Store{recs: make(map[string]protocol.NodeRecord)}
}

// Register upserts a record keyed by the node's host:port.
func (s *Store) Register(rec protocol.NodeRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("registry: register: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Addr()] = rec
	return nil
}

// Owners returns the addresses of all nodes whose catalog contains name,
// sorted for deterministic output. Callers filter out themselves.
func (s *Store) Owners(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for addr, rec := range s.recs {
		for _, seq := range rec.Sequences {
			if seq == name {
				out = append(out, addr)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// All returns every registered record, sorted by address.
func (s *Store) All() []protocol.NodeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.NodeRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Addr() < out[j].Addr()
	})
	return out
}
