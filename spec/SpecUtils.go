package spec

import (
	"fmt"
	"math"
	"reflect"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/utils/floatutils"
)

// NaNPolicy controls whether validation scans floating point values
// for NaN elements. The scan is elementwise, so NaNAuto skips it for
// values larger than nanAutoCutoff, such as image observations.
type NaNPolicy int

const (
	NaNAuto NaNPolicy = iota
	NaNCheck
	NaNIgnore
)

// nanAutoCutoff is the largest number of elements NaNAuto will scan
const nanAutoCutoff = 4096

// Validate checks value against s and, for floating point values,
// scans for NaN elements according to the NaNPolicy
func Validate(s Spec, value *tensor.Dense, nan NaNPolicy) error {
	if err := s.Validate(value); err != nil {
		return err
	}
	if !scanNaN(s, nan) {
		return nil
	}

	vals, err := Float64Values(value)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if floatutils.HasNaN(vals) {
		return fmt.Errorf("%w: spec %v does not permit NaN elements",
			ErrInvalidValue, s.Name())
	}
	return nil
}

func scanNaN(s Spec, nan NaNPolicy) bool {
	if !IsFloat(s.Dtype()) {
		return false
	}
	switch nan {
	case NaNIgnore:
		return false
	case NaNCheck:
		return true
	default:
		return totalSize(s.Shape()) <= nanAutoCutoff
	}
}

// Cast returns a copy of value with its elements converted to dtype.
// Fractional values are truncated toward zero when converting to an
// integer type, and converting a NaN element to an integer type is an
// error.
func Cast(value *tensor.Dense, dtype tensor.Dtype) (*tensor.Dense, error) {
	vals, err := Float64Values(value)
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}

	out, err := FromFloat64Values(vals, dtype, value.Shape())
	if err != nil {
		return nil, fmt.Errorf("cast: %w", err)
	}
	return out, nil
}

// ShrinkToFit scales value toward zero until it fits within the bounds
// of s, then clips any elements that scaling alone cannot fix. The
// scaling factor is shared across elements so that the direction of
// value is preserved. The returned value is validated against s with
// the given NaNPolicy.
func ShrinkToFit(value *tensor.Dense, s *Bounded, nan NaNPolicy) (
	*tensor.Dense, error) {
	vals, err := Float64Values(value)
	if err != nil {
		return nil, fmt.Errorf("shrinkToFit: %w", err)
	}
	if len(vals) != totalSize(s.Shape()) {
		return nil, fmt.Errorf("shrinkToFit: value has %d elements but "+
			"spec %v has %d", len(vals), s.Name(), totalSize(s.Shape()))
	}

	min := s.Minimum()
	max := s.Maximum()

	// Only ratios that actually shrink toward zero participate. A bound
	// violation across zero cannot be fixed by scaling and is clipped
	// below.
	factor := 1.0
	for i, val := range vals {
		var ratio float64
		if val > max[i] {
			ratio = max[i] / val
		} else if val < min[i] {
			ratio = min[i] / val
		} else {
			continue
		}
		if ratio >= 0 && ratio < 1 {
			factor = math.Min(factor, ratio)
		}
	}

	scaled := floatutils.Scale(vals, factor)
	for i := range scaled {
		scaled[i] = floatutils.Clip(scaled[i], min[i], max[i])
	}

	out, err := FromFloat64Values(scaled, s.Dtype(), s.Shape())
	if err != nil {
		return nil, fmt.Errorf("shrinkToFit: %w", err)
	}
	if err := Validate(s, out, nan); err != nil {
		return nil, fmt.Errorf("shrinkToFit: %w", err)
	}
	return out, nil
}

// PromoteTypes returns the smallest supported dtype to which values of
// both argument dtypes can be converted without losing float precision
func PromoteTypes(a, b tensor.Dtype) (tensor.Dtype, error) {
	if !supportedDtype(a) {
		return tensor.Dtype{}, fmt.Errorf("promoteTypes: unsupported "+
			"dtype %v", a)
	}
	if !supportedDtype(b) {
		return tensor.Dtype{}, fmt.Errorf("promoteTypes: unsupported "+
			"dtype %v", b)
	}
	if a == b {
		return a, nil
	}

	// Mixing a float with any other type widens to float64
	if IsFloat(a) || IsFloat(b) {
		return tensor.Float64, nil
	}
	if a.Kind() == reflect.Int32 {
		return b, nil
	}
	if b.Kind() == reflect.Int32 {
		return a, nil
	}
	return tensor.Int64, nil
}

// Float64Values returns the elements of value converted to float64.
// The returned slice is a copy.
func Float64Values(value *tensor.Dense) ([]float64, error) {
	if value == nil {
		return nil, fmt.Errorf("float64Values: nil value")
	}
	if totalSize(value.Shape()) == 0 {
		return []float64{}, nil
	}

	switch data := value.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case float64:
		return []float64{data}, nil
	case float32:
		return []float64{float64(data)}, nil
	case int:
		return []float64{float64(data)}, nil
	case int32:
		return []float64{float64(data)}, nil
	case int64:
		return []float64{float64(data)}, nil
	default:
		return nil, fmt.Errorf("float64Values: unsupported dtype %v",
			value.Dtype())
	}
}

// ScalarValue returns the single element of value as a float64. It is
// an error for value to have more than one element.
func ScalarValue(value *tensor.Dense) (float64, error) {
	vals, err := Float64Values(value)
	if err != nil {
		return 0, fmt.Errorf("scalarValue: %w", err)
	}
	if len(vals) != 1 {
		return 0, fmt.Errorf("scalarValue: expected a single element but "+
			"got %d", len(vals))
	}
	return vals[0], nil
}

// FromFloat64Values packs vals into a new dense tensor of the given
// dtype and shape. A nil or empty shape produces a scalar tensor.
func FromFloat64Values(vals []float64, dtype tensor.Dtype,
	shape tensor.Shape) (*tensor.Dense, error) {
	if !supportedDtype(dtype) {
		return nil, fmt.Errorf("fromFloat64Values: unsupported dtype %v",
			dtype)
	}
	if len(vals) != totalSize(shape) {
		return nil, fmt.Errorf("fromFloat64Values: %d values do not fill "+
			"shape %v", len(vals), shape)
	}
	if IsInteger(dtype) && floatutils.HasNaN(vals) {
		return nil, fmt.Errorf("%w: cannot convert NaN to dtype %v",
			ErrInvalidValue, dtype)
	}

	if len(shape) == 0 {
		return scalarTensor(vals[0], dtype), nil
	}

	var backing interface{}
	switch dtype.Kind() {
	case reflect.Float64:
		data := make([]float64, len(vals))
		copy(data, vals)
		backing = data
	case reflect.Float32:
		data := make([]float32, len(vals))
		for i, v := range vals {
			data[i] = float32(v)
		}
		backing = data
	case reflect.Int:
		data := make([]int, len(vals))
		for i, v := range vals {
			data[i] = int(v)
		}
		backing = data
	case reflect.Int32:
		data := make([]int32, len(vals))
		for i, v := range vals {
			data[i] = int32(v)
		}
		backing = data
	case reflect.Int64:
		data := make([]int64, len(vals))
		for i, v := range vals {
			data[i] = int64(v)
		}
		backing = data
	}

	return tensor.New(
		tensor.WithShape(shape...),
		tensor.WithBacking(backing),
	), nil
}

func scalarTensor(val float64, dtype tensor.Dtype) *tensor.Dense {
	switch dtype.Kind() {
	case reflect.Float32:
		return tensor.New(tensor.FromScalar(float32(val)))
	case reflect.Int:
		return tensor.New(tensor.FromScalar(int(val)))
	case reflect.Int32:
		return tensor.New(tensor.FromScalar(int32(val)))
	case reflect.Int64:
		return tensor.New(tensor.FromScalar(int64(val)))
	default:
		return tensor.New(tensor.FromScalar(val))
	}
}
