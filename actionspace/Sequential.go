package actionspace

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// Sequential composes action spaces so that actions flow through each
// space's projection in order
type Sequential struct {
	name   string
	spaces []ActionSpace
}

// NewSequential returns an ActionSpace that projects actions through
// each of spaces in order. The spec of the composite is the spec of the
// first space. If name is empty, the composite takes the name of the
// first space.
func NewSequential(name string, spaces ...ActionSpace) (*Sequential, error) {
	if len(spaces) == 0 {
		return nil, fmt.Errorf("newSequential: need at least one action " +
			"space")
	}
	if name == "" {
		name = spaces[0].Name()
	}
	return &Sequential{name: name, spaces: spaces}, nil
}

// Name returns the name of the action space
func (s *Sequential) Name() string {
	return s.name
}

// Spec describes the actions the space accepts
func (s *Sequential) Spec() spec.Spec {
	return s.spaces[0].Spec()
}

// Project runs action through each composed space in order
func (s *Sequential) Project(action *tensor.Dense) (*tensor.Dense, error) {
	var err error
	for _, space := range s.spaces {
		action, err = space.Project(action)
		if err != nil {
			return nil, fmt.Errorf("project: space %v: %w", space.Name(), err)
		}
	}
	return action, nil
}
