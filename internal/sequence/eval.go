package sequence

import (
	"errors"
	"fmt"
	"math"
)

// Evaluate computes the sampled values of spec over r.
//
// Every generator is defined on unsampled integer indices; composite
// generators request extended, unsampled spans from their dependencies
// (Smoothed needs n-1..n+1, Drop needs n-k, Recursive needs every term
// from 0). The stride is applied exactly once, here, after the full span
// [r.From, r.To] has been computed.
func Evaluate(spec Spec, r Range) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	all, err := evalSpan(spec, r.From, r.To)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, (r.To-r.From)/r.Step+1)
	for n := r.From; n <= r.To; n += r.Step {
		out = append(out, all[n-r.From])
	}
	return out, nil
}

// evalSpan computes one value per integer index in [lo, hi].
//
// Closed-form generators are total over all integers, including negative
// indices reached through range extension. Generators with dependencies,
// and Recursive, are defined for indices >= 0 only; Drop additionally
// requires n >= k.
func evalSpan(spec Spec, lo, hi int64) ([]float64, error) {
	switch spec.Name {
	case "Arithmetic":
		start, delta := spec.Parameters[0], spec.Parameters[1]
		out := make([]float64, hi-lo+1)
		for i := range out {
			out[i] = start + float64(lo+int64(i))*delta
		}
		return out, nil

	case "Geometric":
		start, factor := spec.Parameters[0], spec.Parameters[1]
		out := make([]float64, hi-lo+1)
		for i := range out {
			out[i] = start * math.Pow(factor, float64(lo+int64(i)))
		}
		return out, nil

	case "Constant":
		out := make([]float64, hi-lo+1)
		for i := range out {
			out[i] = spec.Parameters[0]
		}
		return out, nil

	case "Sum":
		return combine(spec, lo, hi, func(b, c float64) float64 { return b + c })

	case "Prod":
		return combine(spec, lo, hi, func(b, c float64) float64 { return b * c })

	case "Average":
		return combine(spec, lo, hi, func(b, c float64) float64 { return (b + c) / 2 })

	case "LinearCombination":
		a, b, c := spec.Parameters[0], spec.Parameters[1], spec.Parameters[2]
		return combine(spec, lo, hi, func(x, y float64) float64 { return a*x + b*y + c })

	case "Alternating":
		if lo < 0 {
			return nil, domainError(spec.Name, lo)
		}
		vals, err := dependency(spec.Sequences[0], lo, hi)
		if err != nil {
			return nil, err
		}
		for i := range vals {
			if (lo+int64(i))%2 == 1 {
				vals[i] = -vals[i]
			}
		}
		return vals, nil

	case "Smoothed":
		if lo < 0 {
			return nil, domainError(spec.Name, lo)
		}
		vals, err := dependency(spec.Sequences[0], lo-1, hi+1)
		if err != nil {
			return nil, err
		}
		out := make([]float64, hi-lo+1)
		for i := range out {
			out[i] = (vals[i] + vals[i+1] + vals[i+2]) / 3
		}
		return out, nil

	case "Drop":
		k := int64(spec.Parameters[0])
		if k < 0 {
			return nil, fmt.Errorf("%w: Drop offset %d must be non-negative", ErrDomain, k)
		}
		if lo < k {
			return nil, fmt.Errorf("%w: Drop(%d) requested at index %d", ErrDomain, k, lo)
		}
		return dependency(spec.Sequences[0], lo-k, hi-k)

	case "Cyclic":
		k := int64(spec.Parameters[0])
		if k < 1 {
			return nil, fmt.Errorf("%w: Cyclic period %d must be at least 1", ErrDomain, k)
		}
		if lo < 0 {
			return nil, domainError(spec.Name, lo)
		}
		vals, err := dependency(spec.Sequences[0], 0, min(hi, k-1))
		if err != nil {
			return nil, err
		}
		out := make([]float64, hi-lo+1)
		for i := range out {
			out[i] = vals[(lo+int64(i))%k]
		}
		return out, nil

	case "Recursive":
		if lo < 0 {
			return nil, domainError(spec.Name, lo)
		}
		a0, a1, a, b := spec.Parameters[0], spec.Parameters[1], spec.Parameters[2], spec.Parameters[3]
		all := make([]float64, hi+1)
		for n := int64(0); n <= hi; n++ {
			switch n {
			case 0:
				all[n] = a0
			case 1:
				all[n] = a1
			default:
				all[n] = a*all[n-2] + b*all[n-1]
			}
		}
		return all[lo:], nil
	}

	// Validate runs before evaluation, so this is unreachable for any spec
	// that passed validation.
	return nil, fmt.Errorf("%w: %q", ErrUnknownSequence, spec.Name)
}

// combine evaluates both dependencies over [lo, hi] and merges them
// pointwise.
func combine(spec Spec, lo, hi int64, merge func(b, c float64) float64) ([]float64, error) {
	if lo < 0 {
		return nil, domainError(spec.Name, lo)
	}
	left, err := dependency(spec.Sequences[0], lo, hi)
	if err != nil {
		return nil, err
	}
	right, err := dependency(spec.Sequences[1], lo, hi)
	if err != nil {
		return nil, err
	}
	out := make([]float64, hi-lo+1)
	for i := range out {
		out[i] = merge(left[i], right[i])
	}
	return out, nil
}

// dependency evaluates a sub-sequence over an extended, unsampled span and
// tags failures so callers can distinguish them from top-level errors.
func dependency(sub Spec, lo, hi int64) ([]float64, error) {
	vals, err := evalSpan(sub, lo, hi)
	if err != nil {
		if errors.Is(err, ErrDependency) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrDependency, sub.Name, err)
	}
	return vals, nil
}

func domainError(name string, lo int64) error {
	return fmt.Errorf("%w: %s requested at index %d", ErrDomain, name, lo)
}
