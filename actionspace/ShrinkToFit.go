package actionspace

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// ShrinkToFit scales actions toward zero until they fit within the
// bounds of its spec, preserving the direction of the action
type ShrinkToFit struct {
	s   *spec.Bounded
	nan spec.NaNPolicy
}

// NewShrinkToFit returns an ActionSpace that scales out-of-bounds
// actions into the bounds of s. Scaling needs bounds, so s must be a
// Bounded spec.
func NewShrinkToFit(s spec.Spec, nan spec.NaNPolicy) (*ShrinkToFit, error) {
	bounded, ok := s.(*spec.Bounded)
	if !ok {
		return nil, fmt.Errorf("newShrinkToFit: spec must be Bounded but "+
			"got %T", s)
	}
	return &ShrinkToFit{s: bounded, nan: nan}, nil
}

// Name returns the name of the action space
func (s *ShrinkToFit) Name() string {
	return "shrink_to_fit"
}

// Spec describes the actions the space accepts
func (s *ShrinkToFit) Spec() spec.Spec {
	return s.s
}

// Project scales action toward zero until it fits the bounds of the
// spec and validates the result
func (s *ShrinkToFit) Project(action *tensor.Dense) (*tensor.Dense, error) {
	fit, err := spec.ShrinkToFit(action, s.s, s.nan)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return fit, nil
}
