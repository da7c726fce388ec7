package actionspace

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// Fixed pins another space's action, projecting a constant through it
// regardless of input and leaving agents an empty spec to act on.
type Fixed struct {
	value     *tensor.Dense
	inner     ActionSpace
	inputSpec *spec.Bounded
}

// NewFixed returns an ActionSpace that always projects value through
// inner. The value must have the shape of inner's spec.
func NewFixed(value *tensor.Dense, inner ActionSpace) (*Fixed, error) {
	if value == nil {
		return nil, fmt.Errorf("newFixed: no value")
	}
	if inner == nil {
		return nil, fmt.Errorf("newFixed: no inner action space")
	}
	if !shapesEqual(value.Shape(), inner.Spec().Shape()) {
		return nil, fmt.Errorf("newFixed: value shape %v does not match "+
			"spec shape %v", value.Shape(), inner.Spec().Shape())
	}

	inputSpec, err := spec.NewBounded(tensor.Shape{0}, tensor.Float32, nil,
		nil, "")
	if err != nil {
		return nil, fmt.Errorf("newFixed: %w", err)
	}
	return &Fixed{value: value, inner: inner, inputSpec: inputSpec}, nil
}

// Name returns the name of the action space
func (f *Fixed) Name() string {
	return "fixed_" + f.inner.Name()
}

// Spec describes the actions the space accepts, an empty bounded array
func (f *Fixed) Spec() spec.Spec {
	return f.inputSpec
}

// Project ignores action and projects the fixed value through the
// pinned space
func (f *Fixed) Project(action *tensor.Dense) (*tensor.Dense, error) {
	out, err := f.inner.Project(f.value)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return out, nil
}

func shapesEqual(a, b tensor.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
