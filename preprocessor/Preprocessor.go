// Package preprocessor implements timestep preprocessors, which rewrite
// the reward, discount, or observations of timesteps as they flow from
// an environment to an agent. Preprocessors declare how they change the
// timestep spec so that pipelines can be checked before an episode
// runs, and optionally validate the timesteps they see against those
// specs.
package preprocessor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fogleman/gg"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// ErrMissingObservation indicates that a timestep or timestep spec
// lacks an observation a preprocessor was configured to read
var ErrMissingObservation = errors.New("missing observation")

// ErrNotSetUp indicates that Process was called on a preprocessor that
// requires SetupIOSpec to run first
var ErrNotSetUp = errors.New("preprocessor has not been set up")

// TimestepPreprocessor rewrites timesteps. SetupIOSpec declares how the
// preprocessor changes the timestep spec and must be called before
// Process for preprocessors that derive state from the spec.
type TimestepPreprocessor interface {
	// Name returns a human-readable name for the preprocessor
	Name() string

	// SetupIOSpec takes the spec of the timesteps the preprocessor will
	// receive and returns the spec of the timesteps it will produce
	SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep, error)

	// Process rewrites a single timestep
	Process(step timestep.TimeStep) (timestep.TimeStep, error)
}

// ValidationFrequency controls when a preprocessor validates incoming
// and outgoing timesteps against its specs. Validation is elementwise,
// so the zero value checks only the first timestep of each episode.
type ValidationFrequency int

const (
	ValidateOncePerEpisode ValidationFrequency = iota
	ValidateOnce
	ValidateEveryStep
	ValidateNever
)

func (v ValidationFrequency) String() string {
	switch v {
	case ValidateOnce:
		return "ValidateOnce"
	case ValidateEveryStep:
		return "ValidateEveryStep"
	case ValidateNever:
		return "ValidateNever"
	default:
		return "ValidateOncePerEpisode"
	}
}

// specChecker holds the input and output timestep specs a preprocessor
// declared during SetupIOSpec and validates timesteps against them at
// the configured frequency
type specChecker struct {
	frequency ValidationFrequency
	in        *spec.TimeStep
	out       *spec.TimeStep
	validated bool
}

func newSpecChecker(frequency ValidationFrequency) specChecker {
	return specChecker{frequency: frequency}
}

// setup records the input spec and the output spec derived from it
func (c *specChecker) setup(in, out *spec.TimeStep) {
	c.in = in
	c.out = out
	c.validated = false
}

func (c *specChecker) inSpec() *spec.TimeStep {
	return c.in
}

func (c *specChecker) isSetUp() bool {
	return c.in != nil
}

// check validates an input and output timestep pair against the
// recorded specs. Timesteps seen before setup pass unchecked.
func (c *specChecker) check(in, out timestep.TimeStep) error {
	if !c.isSetUp() || !c.shouldValidate(in) {
		return nil
	}

	if err := c.in.Validate(in, spec.NaNAuto); err != nil {
		return fmt.Errorf("input timestep: %w", err)
	}
	if c.out != nil {
		if err := c.out.Validate(out, spec.NaNAuto); err != nil {
			return fmt.Errorf("output timestep: %w", err)
		}
	}
	c.validated = true
	return nil
}

func (c *specChecker) shouldValidate(in timestep.TimeStep) bool {
	switch c.frequency {
	case ValidateNever:
		return false
	case ValidateOnce:
		return !c.validated
	case ValidateEveryStep:
		return true
	default:
		return in.First()
	}
}

// KeyCheckMode controls when a preprocessor confirms that the
// observation keys it was configured with actually exist. KeyCheckEager
// fails during SetupIOSpec when a key is absent from the observation
// spec. KeyCheckLazy defers the check to Process, failing only when a
// timestep arrives without the key. KeyCheckDefault leaves the choice
// to the preprocessor.
type KeyCheckMode int

const (
	KeyCheckDefault KeyCheckMode = iota
	KeyCheckEager
	KeyCheckLazy
)

// Renderable is implemented by preprocessors that can draw a summary of
// their state onto a rendering context, for example to overlay reward
// diagnostics on episode frames
type Renderable interface {
	RenderFrame(dc *gg.Context)
}

// observationError builds the error for a missing observation key,
// naming the keys that are available
func observationError(key string, available []string) error {
	return fmt.Errorf("%w: %q; valid names are %v", ErrMissingObservation,
		key, available)
}

// observationKeys returns the names of the observations in a timestep
// in sorted order
func observationKeys(observation map[string]*tensor.Dense) []string {
	keys := make([]string, 0, len(observation))
	for key := range observation {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
