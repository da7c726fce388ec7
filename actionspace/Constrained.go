package actionspace

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goflow/spec"
)

// ConstrainedSpec returns a copy of s with its bounds tightened by the
// given bounds. Each new bound is the tighter of the existing bound
// and the given one, so constraining can only narrow the spec. The
// given bounds must have one element, broadcast across the spec, or
// one element per element of the spec. Construction fails if any
// tightened minimum exceeds its tightened maximum.
func ConstrainedSpec(s spec.Spec, minimum, maximum []float64) (*spec.Bounded,
	error) {
	base, ok := s.(*spec.Bounded)
	if !ok {
		return nil, fmt.Errorf("constrainedSpec: spec must be Bounded but "+
			"got %T", s)
	}

	size := len(base.Minimum())
	min, err := broadcastBound(minimum, size)
	if err != nil {
		return nil, fmt.Errorf("constrainedSpec: minimum: %w", err)
	}
	max, err := broadcastBound(maximum, size)
	if err != nil {
		return nil, fmt.Errorf("constrainedSpec: maximum: %w", err)
	}

	for i := range min {
		min[i] = math.Max(base.Minimum()[i], min[i])
		max[i] = math.Min(base.Maximum()[i], max[i])
	}

	constrained, err := spec.NewBounded(base.Shape(), base.Dtype(), min, max,
		base.Name())
	if err != nil {
		return nil, fmt.Errorf("constrainedSpec: contradictory bounds: %w",
			err)
	}
	return constrained, nil
}

// NewConstrained returns an ActionSpace that validates actions against
// the bounds of space tightened by the given bounds, then projects
// them through space
func NewConstrained(space ActionSpace, minimum, maximum []float64) (
	ActionSpace, error) {
	constrained, err := ConstrainedSpec(space.Spec(), minimum, maximum)
	if err != nil {
		return nil, fmt.Errorf("newConstrained: %w", err)
	}

	identity, err := NewIdentity(constrained)
	if err != nil {
		return nil, fmt.Errorf("newConstrained: %w", err)
	}
	return NewSequential("constrained", identity, space)
}

func broadcastBound(bound []float64, size int) ([]float64, error) {
	switch len(bound) {
	case size:
		out := make([]float64, size)
		copy(out, bound)
		return out, nil
	case 1:
		out := make([]float64, size)
		for i := range out {
			out[i] = bound[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("bound has %d elements but spec has %d",
			len(bound), size)
	}
}
