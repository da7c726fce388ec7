// Package spec describes the shape, element type, and bounds of the
// values exchanged with an environment and implements the validation
// used by action spaces and timestep preprocessors.
package spec

import (
	"errors"
	"fmt"
	"reflect"

	"gorgonia.org/tensor"
)

// ErrInvalidValue indicates that a value does not conform to a Spec
var ErrInvalidValue = errors.New("value does not conform to spec")

// Spec describes a single dense array value. A Spec can validate
// candidate values against its shape, element type, and any bounds.
type Spec interface {
	Shape() tensor.Shape
	Dtype() tensor.Dtype
	Name() string

	// Validate returns an error wrapping ErrInvalidValue if the value
	// does not conform to the Spec
	Validate(value *tensor.Dense) error
}

// Array describes the shape and element type of a dense array
type Array struct {
	shape tensor.Shape
	dtype tensor.Dtype
	name  string
}

// NewArray returns a new Array spec. A nil or empty shape describes a
// scalar value.
func NewArray(shape tensor.Shape, dtype tensor.Dtype, name string) (*Array,
	error) {
	if !supportedDtype(dtype) {
		return nil, fmt.Errorf("newArray: unsupported dtype %v", dtype)
	}
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("newArray: negative dimension in shape %v",
				shape)
		}
	}

	return &Array{
		shape: append(tensor.Shape(nil), shape...),
		dtype: dtype,
		name:  name,
	}, nil
}

// Shape returns the shape described by the spec. The caller should not
// modify the returned shape.
func (a *Array) Shape() tensor.Shape {
	return a.shape
}

// Dtype returns the element type described by the spec
func (a *Array) Dtype() tensor.Dtype {
	return a.dtype
}

// Name returns the name of the spec
func (a *Array) Name() string {
	return a.name
}

// Validate checks the shape and element type of value
func (a *Array) Validate(value *tensor.Dense) error {
	if value == nil {
		return fmt.Errorf("%w: spec %v expects a value but got nil",
			ErrInvalidValue, a.name)
	}
	if !shapesEqual(value.Shape(), a.shape) {
		return fmt.Errorf("%w: spec %v expects shape %v but got %v",
			ErrInvalidValue, a.name, a.shape, value.Shape())
	}
	if value.Dtype() != a.dtype {
		return fmt.Errorf("%w: spec %v expects dtype %v but got %v",
			ErrInvalidValue, a.name, a.dtype, value.Dtype())
	}
	return nil
}

func (a *Array) String() string {
	return fmt.Sprintf("Array | Name: %v  |  Shape: %v  |  Dtype: %v",
		a.name, a.shape, a.dtype)
}

// Bounded describes a dense array whose elements lie within elementwise
// bounds
type Bounded struct {
	Array
	minimum []float64
	maximum []float64
}

// NewBounded returns a new Bounded spec. The minimum and maximum bounds
// must each have either a single element, which is broadcast across the
// shape, or one element per element of the shape.
func NewBounded(shape tensor.Shape, dtype tensor.Dtype, minimum,
	maximum []float64, name string) (*Bounded, error) {
	arr, err := NewArray(shape, dtype, name)
	if err != nil {
		return nil, fmt.Errorf("newBounded: %w", err)
	}

	size := totalSize(shape)
	min, err := broadcast(minimum, size)
	if err != nil {
		return nil, fmt.Errorf("newBounded: minimum: %w", err)
	}
	max, err := broadcast(maximum, size)
	if err != nil {
		return nil, fmt.Errorf("newBounded: maximum: %w", err)
	}
	for i := range min {
		if min[i] > max[i] {
			return nil, fmt.Errorf("newBounded: minimum %v exceeds maximum "+
				"%v at index %d", min[i], max[i], i)
		}
	}

	return &Bounded{Array: *arr, minimum: min, maximum: max}, nil
}

// Minimum returns the elementwise lower bound. The caller should not
// modify the returned slice.
func (b *Bounded) Minimum() []float64 {
	return b.minimum
}

// Maximum returns the elementwise upper bound. The caller should not
// modify the returned slice.
func (b *Bounded) Maximum() []float64 {
	return b.maximum
}

// Validate checks the shape, element type, and bounds of value. NaN
// elements pass the bounds check and are caught by the package level
// Validate according to its NaNPolicy.
func (b *Bounded) Validate(value *tensor.Dense) error {
	if err := b.Array.Validate(value); err != nil {
		return err
	}

	vals, err := Float64Values(value)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	for i, val := range vals {
		if val < b.minimum[i] || val > b.maximum[i] {
			return fmt.Errorf("%w: spec %v expects element %d in [%v, %v] "+
				"but got %v", ErrInvalidValue, b.Name(), i, b.minimum[i],
				b.maximum[i], val)
		}
	}
	return nil
}

func (b *Bounded) String() string {
	return fmt.Sprintf("Bounded | Name: %v  |  Shape: %v  |  Dtype: %v  |  "+
		"Min: %v  |  Max: %v", b.Name(), b.Shape(), b.Dtype(), b.minimum,
		b.maximum)
}

// Discrete describes a scalar integer drawn from {0, 1, ..., n-1}
type Discrete struct {
	Array
	numValues int
}

// NewDiscrete returns a new Discrete spec with values in
// {0, 1, ..., numValues-1}
func NewDiscrete(numValues int, dtype tensor.Dtype, name string) (*Discrete,
	error) {
	if numValues < 1 {
		return nil, fmt.Errorf("newDiscrete: need at least one value but "+
			"got %d", numValues)
	}
	if !IsInteger(dtype) {
		return nil, fmt.Errorf("newDiscrete: dtype must be an integer type "+
			"but got %v", dtype)
	}

	arr, err := NewArray(nil, dtype, name)
	if err != nil {
		return nil, fmt.Errorf("newDiscrete: %w", err)
	}
	return &Discrete{Array: *arr, numValues: numValues}, nil
}

// NumValues returns the number of values the spec admits
func (d *Discrete) NumValues() int {
	return d.numValues
}

// Validate checks that value is a scalar in {0, 1, ..., n-1}
func (d *Discrete) Validate(value *tensor.Dense) error {
	if err := d.Array.Validate(value); err != nil {
		return err
	}

	val, err := ScalarValue(value)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if val < 0 || val >= float64(d.numValues) {
		return fmt.Errorf("%w: spec %v expects a value in [0, %d) but got %v",
			ErrInvalidValue, d.Name(), d.numValues, val)
	}
	return nil
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete | Name: %v  |  NumValues: %v  |  Dtype: %v",
		d.Name(), d.numValues, d.Dtype())
}

func supportedDtype(dtype tensor.Dtype) bool {
	return IsInteger(dtype) || IsFloat(dtype)
}

// IsInteger returns whether the dtype has an integer kind
func IsInteger(dtype tensor.Dtype) bool {
	switch dtype.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

// IsFloat returns whether the dtype has a floating point kind
func IsFloat(dtype tensor.Dtype) bool {
	switch dtype.Kind() {
	case reflect.Float64, reflect.Float32:
		return true
	default:
		return false
	}
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

// totalSize returns the number of elements a shape describes. A scalar
// shape has one element.
func totalSize(shape tensor.Shape) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}

func broadcast(bound []float64, size int) ([]float64, error) {
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
