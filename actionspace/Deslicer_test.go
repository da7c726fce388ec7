package actionspace

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

func armHandSpec(t *testing.T) *spec.Bounded {
	name := strings.Join([]string{"arm/joint0", "arm/joint1", "hand/finger0",
		"hand/finger1"}, "\t")
	s, err := spec.NewBounded(tensor.Shape{4}, tensor.Float64,
		[]float64{-1.0, -2.0, -3.0, -4.0}, []float64{1.0, 2.0, 3.0, 4.0},
		name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPrefixSlicerEmptyPrefix(t *testing.T) {
	base := armHandSpec(t)
	space, err := PrefixSlicer(base, "", math.NaN(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := space.(*Identity); !ok {
		t.Fatalf("expected an Identity space, received %T", space)
	}
	if space.Spec() != spec.Spec(base) {
		t.Error("identity space should carry the full spec")
	}
}

func TestPrefixSlicerEmptySpec(t *testing.T) {
	empty, err := spec.NewBounded(tensor.Shape{0}, tensor.Float64, nil, nil,
		"")
	if err != nil {
		t.Fatal(err)
	}

	space, err := PrefixSlicer(empty, "arm/", 0.0, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := space.(*Identity); !ok {
		t.Fatalf("expected an Identity space, received %T", space)
	}
}

func TestPrefixSlicerSelectsMatchingComponents(t *testing.T) {
	base := armHandSpec(t)
	space, err := PrefixSlicer(base, "hand/", 0.0, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	subSpec := space.Spec().(*spec.Bounded)
	if subSpec.Shape()[0] != 2 {
		t.Fatalf("expected 2 components, received %v", subSpec.Shape())
	}
	if subSpec.Name() != "hand/finger0\thand/finger1" {
		t.Errorf("unexpected sub-spec name %q", subSpec.Name())
	}
	if subSpec.Minimum()[0] != -3.0 || subSpec.Maximum()[1] != 4.0 {
		t.Error("sub-spec bounds should be sliced from the base spec")
	}

	action := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{0.5, -0.5}),
	)
	full, err := space.Project(action)
	if err != nil {
		t.Fatal(err)
	}

	data := full.Data().([]float64)
	expected := []float64{0.0, 0.0, 0.5, -0.5}
	for i := range expected {
		if data[i] != expected[i] {
			t.Errorf("index %d: expected %v, received %v", i, expected[i],
				data[i])
		}
	}
}

func TestPrefixSlicerFillsWithNaN(t *testing.T) {
	base := armHandSpec(t)
	space, err := PrefixSlicerNaN(base, "arm/", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	action := tensor.New(
		tensor.WithShape(2),
		tensor.WithBacking([]float64{0.25, -0.25}),
	)
	full, err := space.Project(action)
	if err != nil {
		t.Fatal(err)
	}

	data := full.Data().([]float64)
	if data[0] != 0.25 || data[1] != -0.25 {
		t.Errorf("expected matched components first, received %v", data)
	}
	if !math.IsNaN(data[2]) || !math.IsNaN(data[3]) {
		t.Errorf("expected unmatched components to be NaN, received %v", data)
	}
}

func TestPrefixSlicerAllMatch(t *testing.T) {
	base := armHandSpec(t)
	space, err := PrefixSlicer(base, "arm/|hand/", math.NaN(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	backing := []float64{0.1, 0.2, 0.3, 0.4}
	action := tensor.New(
		tensor.WithShape(4),
		tensor.WithBacking(backing),
	)
	full, err := space.Project(action)
	if err != nil {
		t.Fatal(err)
	}

	data := full.Data().([]float64)
	for i := range backing {
		if data[i] != backing[i] {
			t.Errorf("index %d: expected %v, received %v", i, backing[i],
				data[i])
		}
	}
}

func TestPrefixSlicerNoMatches(t *testing.T) {
	base := armHandSpec(t)
	space, err := PrefixSlicer(base, "leg/", math.NaN(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if space.Spec().Shape()[0] != 0 {
		t.Fatalf("expected an empty sub-spec, received shape %v",
			space.Spec().Shape())
	}

	empty := tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(0))
	full, err := space.Project(empty)
	if err != nil {
		t.Fatal(err)
	}

	data := full.Data().([]float64)
	if len(data) != 4 {
		t.Fatalf("expected a full-sized action, received %d elements",
			len(data))
	}
	for i := range data {
		if !math.IsNaN(data[i]) {
			t.Errorf("index %d: expected NaN, received %v", i, data[i])
		}
	}
}

func TestPrefixSlicerNameCountMismatch(t *testing.T) {
	s, err := spec.NewBounded(tensor.Shape{3}, tensor.Float64,
		[]float64{-1.0}, []float64{1.0}, "arm/joint0\tarm/joint1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := PrefixSlicer(s, "arm/", 0.0, zerolog.Nop()); err == nil {
		t.Error("expected an error when the name count does not match the " +
			"component count")
	}
}

func TestPrefixSlicerRejectsDiscreteSpecs(t *testing.T) {
	d, err := spec.NewDiscrete(3, tensor.Int, "switch")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := PrefixSlicer(d, "sw", 0.0, zerolog.Nop()); err == nil {
		t.Error("expected an error for a discrete spec")
	}
}
