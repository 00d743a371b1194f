// Package catalog owns the node-local sequence catalog.
//
// Ownership boundary:
// - which generator names this node serves
// - dispatch from an owned name into the sequence engine
//
// The catalog is built once at startup from configuration and never
// mutated, so lookups need no locking.
package catalog

import (
	"errors"
	"fmt"

	"github.com/mhodnik/seqnet/internal/sequence"
)

var (
	ErrNotOwned    = errors.New("catalog: sequence not owned")
	ErrUnknownName = errors.New("catalog: unknown sequence name")
	ErrEmpty       = errors.New("catalog: at least one sequence is required")
)

// Catalog maps owned sequence names to their generator descriptors.
type Catalog struct {
	owned map[string]sequence.Info
	order []string
}

// New builds a catalog from configured names. Names that are not in the
// generator table are a configuration error, surfaced at startup rather
// than at query time. Duplicates collapse to one entry.
func New(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{owned: make(map[string]sequence.Info, len(names))}
	for _, name := range names {
		info, ok := sequence.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		if _, dup := c.owned[name]; dup {
			continue
		}
		c.owned[name] = info
		c.order = append(c.order, name)
	}
	return c, nil
}

// Owns reports whether this node evaluates name locally.
func (c *Catalog) Owns(name string) bool {
	_, ok := c.owned[name]
	return ok
}

// Names returns the owned names in configuration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Infos returns the descriptors of the owned generators in configuration
// order, for the catalog listing endpoint.
func (c *Catalog) Infos() []sequence.Info {
	out := make([]sequence.Info, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.owned[name])
	}
	return out
}

// Resolve evaluates an owned sequence through the engine.
func (c *Catalog) Resolve(name string, params []float64, subs []sequence.Spec, r sequence.Range) ([]float64, error) {
	if !c.Owns(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotOwned, name)
	}
	return sequence.Evaluate(sequence.Spec{Name: name, Parameters: params, Sequences: subs}, r)
}
