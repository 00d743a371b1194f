// Package sequence owns sequence evaluation concerns.
//
// Ownership boundary:
// - the closed set of named generators and their arities
// - spec tree and range validation
// - pure evaluation with range extension before sampling
//
// The package performs no network or file I/O.
package sequence

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSequence = errors.New("sequence: unknown sequence")
	ErrArity           = errors.New("sequence: arity mismatch")
	ErrDomain          = errors.New("sequence: index outside domain")
	ErrDependency      = errors.New("sequence: dependency evaluation failed")
	ErrBadRange        = errors.New("sequence: invalid range")
)

// Range is the requested index interval plus the output sampling stride.
// The interval [From, To] is inclusive; Step applies only to the output,
// never to dependency evaluation.
type Range struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
	Step int64 `json:"step"`
}

// Validate enforces From <= To and Step >= 1.
func (r Range) Validate() error {
	if r.From > r.To {
		return fmt.Errorf("%w: from %d greater than to %d", ErrBadRange, r.From, r.To)
	}
	if r.Step < 1 {
		return fmt.Errorf("%w: step %d must be at least 1", ErrBadRange, r.Step)
	}
	return nil
}

// Spec is a declarative, possibly nested description of a sequence.
// Specs are built per request and treated as read-only during evaluation.
type Spec struct {
	Name       string    `json:"name"`
	Parameters []float64 `json:"parameters"`
	Sequences  []Spec    `json:"sequences"`
}

// Validate checks the whole spec tree against the generator table before
// any evaluation happens. Arity violations are request errors.
func (s Spec) Validate() error {
	info, ok := Lookup(s.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSequence, s.Name)
	}
	if len(s.Parameters) != info.Parameters {
		return fmt.Errorf("%w: %s expects %d parameters, got %d",
			ErrArity, s.Name, info.Parameters, len(s.Parameters))
	}
	if len(s.Sequences) != info.Sequences {
		return fmt.Errorf("%w: %s expects %d sub-sequences, got %d",
			ErrArity, s.Name, info.Sequences, len(s.Sequences))
	}
	for i := range s.Sequences {
		if err := s.Sequences[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Info describes one generator: its name, a human description, and the
// exact number of scalar parameters and sub-sequences it takes.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  int    `json:"parameters"`
	Sequences   int    `json:"sequences"`
}

var generators = []Info{
	{Name: "Arithmetic", Description: "a(n) = start + n*delta", Parameters: 2, Sequences: 0},
	{Name: "Geometric", Description: "a(n) = start * factor^n", Parameters: 2, Sequences: 0},
	{Name: "Constant", Description: "a(n) = value", Parameters: 1, Sequences: 0},
	{Name: "Sum", Description: "element-wise sum of two sequences", Parameters: 0, Sequences: 2},
	{Name: "Prod", Description: "element-wise product of two sequences", Parameters: 0, Sequences: 2},
	{Name: "Drop", Description: "a(n) = b(n-k), defined for n >= k", Parameters: 1, Sequences: 1},
	{Name: "LinearCombination", Description: "a(n) = A*b(n) + B*c(n) + C", Parameters: 3, Sequences: 2},
	{Name: "Recursive", Description: "a(0)=a0, a(1)=a1, a(n) = A*a(n-2) + B*a(n-1)", Parameters: 4, Sequences: 0},
	{Name: "Average", Description: "element-wise average of two sequences", Parameters: 0, Sequences: 2},
	{Name: "Cyclic", Description: "a(n) = b(n mod k)", Parameters: 1, Sequences: 1},
	{Name: "Alternating", Description: "a(n) = (-1)^n * b(n)", Parameters: 0, Sequences: 1},
	{Name: "Smoothed", Description: "a(n) = (b(n-1)+b(n)+b(n+1)) / 3", Parameters: 0, Sequences: 1},
}

// Generators returns the full generator table in declaration order.
func Generators() []Info {
	out := make([]Info, len(generators))
	copy(out, generators)
	return out
}

// Lookup returns the generator descriptor for name.
func Lookup(name string) (Info, bool) {
	for _, info := range generators {
		if info.Name == name {
			return info, true
		}
	}
	return Info{}, false
}
