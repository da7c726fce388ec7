package actionspace

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
)

// nameSeparator joins the per-component names of a one-dimensional
// action spec into its Name
const nameSeparator = "\t"

// Deslicer accepts the components of a larger action whose names match
// a prefix and projects them back into the full action, filling the
// remaining components with a default value
type Deslicer struct {
	base         spec.Spec
	subSpec      spec.Spec
	prefix       string
	indices      []int
	defaultValue float64
}

// PrefixSlicer returns an ActionSpace accepting only the components of
// s whose names match the regular expression prefix, anchored at the
// start of each component name. Component names are obtained by
// splitting the name of s on tabs, and s must carry one name per
// component. Projection produces a full-sized action with unmatched
// components set to defaultValue, conventionally NaN so that untouched
// components are visible downstream.
//
// An empty prefix selects the whole action and an empty spec has
// nothing to slice; both return an Identity space. A prefix matching no
// components is permitted but logs a warning, and projection then
// produces an all-default action.
func PrefixSlicer(s spec.Spec, prefix string, defaultValue float64,
	log zerolog.Logger) (ActionSpace, error) {
	if s == nil {
		return nil, fmt.Errorf("prefixSlicer: no spec")
	}
	if prefix == "" || s.Shape().TotalSize() == 0 {
		return NewIdentity(s)
	}
	if _, ok := s.(*spec.Discrete); ok {
		return nil, fmt.Errorf("prefixSlicer: discrete specs cannot be " +
			"sliced")
	}
	if len(s.Shape()) != 1 {
		return nil, fmt.Errorf("prefixSlicer: spec %v must be "+
			"one-dimensional but has shape %v", s.Name(), s.Shape())
	}

	names := strings.Split(s.Name(), nameSeparator)
	if len(names) != s.Shape()[0] {
		return nil, fmt.Errorf("prefixSlicer: spec has %d components but "+
			"%d names", s.Shape()[0], len(names))
	}

	re, err := regexp.Compile("^(?:" + prefix + ")")
	if err != nil {
		return nil, fmt.Errorf("prefixSlicer: bad prefix %q: %w", prefix, err)
	}

	var indices []int
	var matched []string
	for i, name := range names {
		if re.MatchString(name) {
			indices = append(indices, i)
			matched = append(matched, name)
		}
	}
	if len(indices) == 0 {
		log.Warn().
			Str("prefix", prefix).
			Str("spec", s.Name()).
			Msg("prefixSlicer: prefix matched no action components")
	}

	subName := strings.Join(matched, nameSeparator)
	var subSpec spec.Spec
	switch base := s.(type) {
	case *spec.Bounded:
		min := make([]float64, len(indices))
		max := make([]float64, len(indices))
		for j, idx := range indices {
			min[j] = base.Minimum()[idx]
			max[j] = base.Maximum()[idx]
		}
		subSpec, err = spec.NewBounded(tensor.Shape{len(indices)}, s.Dtype(),
			min, max, subName)
	default:
		subSpec, err = spec.NewArray(tensor.Shape{len(indices)}, s.Dtype(),
			subName)
	}
	if err != nil {
		return nil, fmt.Errorf("prefixSlicer: %w", err)
	}

	return &Deslicer{
		base:         s,
		subSpec:      subSpec,
		prefix:       prefix,
		indices:      indices,
		defaultValue: defaultValue,
	}, nil
}

// PrefixSlicerNaN is PrefixSlicer with a NaN default, leaving unmatched
// components visibly untouched
func PrefixSlicerNaN(s spec.Spec, prefix string,
	log zerolog.Logger) (ActionSpace, error) {
	return PrefixSlicer(s, prefix, math.NaN(), log)
}

// Name returns the prefix the space slices on
func (d *Deslicer) Name() string {
	return d.prefix
}

// Spec describes the sliced actions the space accepts
func (d *Deslicer) Spec() spec.Spec {
	return d.subSpec
}

// Project validates action against the sliced spec and scatters its
// components into a full-sized action, filling the rest with the
// default value. The output is not validated so that a NaN default
// passes through untouched.
func (d *Deslicer) Project(action *tensor.Dense) (*tensor.Dense, error) {
	if err := spec.Validate(d.subSpec, action, spec.NaNAuto); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	out := make([]float64, d.base.Shape()[0])
	for i := range out {
		out[i] = d.defaultValue
	}
	if len(d.indices) > 0 {
		vals, err := spec.Float64Values(action)
		if err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
		for j, idx := range d.indices {
			out[idx] = vals[j]
		}
	}

	full, err := spec.FromFloat64Values(out, d.base.Dtype(), d.base.Shape())
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return full, nil
}
