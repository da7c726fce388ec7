// Package actionspace implements transformations between action
// representations. An ActionSpace projects actions from the space an
// agent emits into the space an environment consumes, for example by
// slicing out named components, casting element types, or scaling
// values into bounds.
package actionspace

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// ActionSpace converts actions conforming to its Spec into actions for
// some underlying environment or composed action space
type ActionSpace interface {
	// Name returns a human-readable name for the space
	Name() string

	// Spec describes the actions the space accepts
	Spec() spec.Spec

	// Project converts an action conforming to Spec into an action for
	// the underlying target
	Project(action *tensor.Dense) (*tensor.Dense, error)
}

// Identity passes actions through unchanged after validating them
// against its spec
type Identity struct {
	s spec.Spec
}

// NewIdentity returns an ActionSpace that validates actions against s
// and passes them through unchanged
func NewIdentity(s spec.Spec) (*Identity, error) {
	if s == nil {
		return nil, fmt.Errorf("newIdentity: no spec")
	}
	return &Identity{s: s}, nil
}

// Name returns the name of the action space
func (i *Identity) Name() string {
	return "identity"
}

// Spec describes the actions the space accepts
func (i *Identity) Spec() spec.Spec {
	return i.s
}

// Project validates action and returns it unchanged
func (i *Identity) Project(action *tensor.Dense) (*tensor.Dense, error) {
	if err := spec.Validate(i.s, action, spec.NaNAuto); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return action, nil
}
