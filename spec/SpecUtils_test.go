package spec

import (
	"errors"
	"math"
	"testing"

	"gorgonia.org/tensor"
)

const threshold = 0.000001

func TestValidateNaNPolicy(t *testing.T) {
	arr, err := NewArray(tensor.Shape{2}, tensor.Float64, "velocity")
	if err != nil {
		t.Fatal(err)
	}
	value := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{math.NaN(), 1.0}),
	)

	err = Validate(arr, value, NaNCheck)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue with NaNCheck, received %v", err)
	}
	if err := Validate(arr, value, NaNIgnore); err != nil {
		t.Errorf("expected NaNIgnore to pass, received %v", err)
	}
	err = Validate(arr, value, NaNAuto)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected NaNAuto to scan a small value, received %v", err)
	}
}

func TestValidateNaNAutoSkipsLargeValues(t *testing.T) {
	size := nanAutoCutoff + 1
	arr, err := NewArray(tensor.Shape{size}, tensor.Float64, "camera")
	if err != nil {
		t.Fatal(err)
	}

	backing := make([]float64, size)
	backing[size/2] = math.NaN()
	value := tensor.New(
		tensor.WithShape(size),
		tensor.WithBacking(backing),
	)

	if err := Validate(arr, value, NaNAuto); err != nil {
		t.Errorf("expected NaNAuto to skip a large value, received %v", err)
	}
	err = Validate(arr, value, NaNCheck)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected NaNCheck to scan a large value, received %v", err)
	}
}

func TestCast(t *testing.T) {
	value := tensor.New(
		tensor.WithShape(3),
		tensor.WithBacking([]float64{0.5, -1.25, 2.0}),
	)

	cast, err := Cast(value, tensor.Float32)
	if err != nil {
		t.Fatal(err)
	}
	if cast.Dtype() != tensor.Float32 {
		t.Errorf("expected dtype %v, received %v", tensor.Float32,
			cast.Dtype())
	}
	data := cast.Data().([]float32)
	expected := []float32{0.5, -1.25, 2.0}
	for i := range expected {
		if data[i] != expected[i] {
			t.Errorf("index %d: expected %v, received %v", i, expected[i],
				data[i])
		}
	}
}

func TestCastTruncatesTowardZero(t *testing.T) {
	value := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{1.9, -1.9}),
	)

	cast, err := Cast(value, tensor.Int)
	if err != nil {
		t.Fatal(err)
	}
	data := cast.Data().([]int)
	if data[0] != 1 || data[1] != -1 {
		t.Errorf("expected [1 -1], received %v", data)
	}
}

func TestCastNaNToIntegerFails(t *testing.T) {
	value := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{math.NaN(), 1.0}),
	)

	_, err := Cast(value, tensor.Int64)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, received %v", err)
	}
}

func TestPromoteTypes(t *testing.T) {
	tests := []struct {
		a, b     tensor.Dtype
		expected tensor.Dtype
	}{
		{tensor.Float64, tensor.Float64, tensor.Float64},
		{tensor.Float32, tensor.Float32, tensor.Float32},
		{tensor.Float32, tensor.Float64, tensor.Float64},
		{tensor.Float32, tensor.Int32, tensor.Float64},
		{tensor.Int32, tensor.Int64, tensor.Int64},
		{tensor.Int32, tensor.Int32, tensor.Int32},
		{tensor.Int, tensor.Int64, tensor.Int64},
	}

	for _, test := range tests {
		promoted, err := PromoteTypes(test.a, test.b)
		if err != nil {
			t.Fatal(err)
		}
		if promoted != test.expected {
			t.Errorf("promote(%v, %v): expected %v, received %v", test.a,
				test.b, test.expected, promoted)
		}
	}
}

func TestShrinkToFitScalesTowardZero(t *testing.T) {
	b, err := NewBounded(tensor.Shape{2}, tensor.Float64, []float64{-1.0},
		[]float64{1.0}, "action")
	if err != nil {
		t.Fatal(err)
	}

	value := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{4.0, 2.0}),
	)
	fit, err := ShrinkToFit(value, b, NaNAuto)
	if err != nil {
		t.Fatal(err)
	}

	// The largest violation is 4.0 against a bound of 1.0, so the whole
	// value is scaled by 0.25 and the direction is preserved
	data := fit.Data().([]float64)
	if math.Abs(data[0]-1.0) > threshold || math.Abs(data[1]-0.5) > threshold {
		t.Errorf("expected [1.0 0.5], received %v", data)
	}
}

func TestShrinkToFitLeavesConformingValues(t *testing.T) {
	b, err := NewBounded(tensor.Shape{2}, tensor.Float64, []float64{-1.0},
		[]float64{1.0}, "action")
	if err != nil {
		t.Fatal(err)
	}

	value := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{0.25, -0.75}),
	)
	fit, err := ShrinkToFit(value, b, NaNAuto)
	if err != nil {
		t.Fatal(err)
	}

	data := fit.Data().([]float64)
	if data[0] != 0.25 || data[1] != -0.75 {
		t.Errorf("expected [0.25 -0.75], received %v", data)
	}
}

func TestScalarValue(t *testing.T) {
	val, err := ScalarValue(tensor.New(tensor.FromScalar(2.5)))
	if err != nil {
		t.Fatal(err)
	}
	if val != 2.5 {
		t.Errorf("expected 2.5, received %v", val)
	}

	vector := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{1.0, 2.0}),
	)
	if _, err := ScalarValue(vector); err == nil {
		t.Error("expected an error for a multi-element value")
	}
}

func TestFromFloat64ValuesScalar(t *testing.T) {
	scalar, err := FromFloat64Values([]float64{3.0}, tensor.Float32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if scalar.Dtype() != tensor.Float32 {
		t.Errorf("expected dtype %v, received %v", tensor.Float32,
			scalar.Dtype())
	}
	if len(scalar.Shape()) != 0 {
		t.Errorf("expected a scalar shape, received %v", scalar.Shape())
	}
}
