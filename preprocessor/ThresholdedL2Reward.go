package preprocessor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// ThresholdedL2RewardConfig configures a ThresholdedL2Reward
type ThresholdedL2RewardConfig struct {
	// Obs0 and Obs1 name the two observations whose distance is
	// thresholded
	Obs0 string
	Obs1 string

	// Threshold is the distance below which the reward is granted
	Threshold float64

	// Reward is the value emitted when the observations are within the
	// threshold distance. Otherwise the reward is zero.
	Reward float64

	// KeyCheck controls when the observation keys are confirmed to
	// exist. By default a ThresholdedL2Reward checks eagerly, failing
	// at SetupIOSpec when a key is absent from the observation spec.
	KeyCheck KeyCheckMode

	Validation ValidationFrequency
}

// DefaultThresholdedL2RewardConfig returns the default configuration,
// granting a reward of 1 when the two named observations are within
// threshold of each other
func DefaultThresholdedL2RewardConfig(obs0, obs1 string,
	threshold float64) ThresholdedL2RewardConfig {
	return ThresholdedL2RewardConfig{
		Obs0:       obs0,
		Obs1:       obs1,
		Threshold:  threshold,
		Reward:     1.0,
		KeyCheck:   KeyCheckDefault,
		Validation: ValidateOncePerEpisode,
	}
}

// ThresholdedL2Reward emits a sparse reward when two observations come
// within a threshold L2 distance of each other. The reward values take
// on the dtype of the incoming reward spec.
type ThresholdedL2Reward struct {
	config  ThresholdedL2RewardConfig
	checker specChecker

	dtype     tensor.Dtype
	haveDtype bool
}

// NewThresholdedL2Reward returns a ThresholdedL2Reward with the given
// configuration
func NewThresholdedL2Reward(config ThresholdedL2RewardConfig) (
	*ThresholdedL2Reward, error) {
	if config.Obs0 == "" || config.Obs1 == "" {
		return nil, fmt.Errorf("newThresholdedL2Reward: need two " +
			"observation keys")
	}
	return &ThresholdedL2Reward{
		config:  config,
		checker: newSpecChecker(config.Validation),
	}, nil
}

// Name returns the name of the preprocessor
func (t *ThresholdedL2Reward) Name() string {
	return "ThresholdedL2Reward"
}

func (t *ThresholdedL2Reward) lazy() bool {
	return t.config.KeyCheck == KeyCheckLazy
}

// SetupIOSpec records the reward dtype and returns the input spec
// unchanged. Unless configured for lazy key checking, both observation
// keys must be present in the observation spec.
func (t *ThresholdedL2Reward) SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep,
	error) {
	if in == nil {
		return nil, fmt.Errorf("setupIOSpec: no input spec")
	}

	if !t.lazy() {
		for _, key := range []string{t.config.Obs0, t.config.Obs1} {
			if _, ok := in.Observation(key); !ok {
				return nil, fmt.Errorf("setupIOSpec: %w",
					observationError(key, in.ObservationKeys()))
			}
		}
	}

	t.dtype = in.Reward().Dtype()
	t.haveDtype = true
	t.checker.setup(in, in)
	return in, nil
}

// Process replaces the reward of step with the configured reward when
// the two observations are within the threshold distance, and zero
// otherwise
func (t *ThresholdedL2Reward) Process(step timestep.TimeStep) (
	timestep.TimeStep, error) {
	v0, ok := step.Observation[t.config.Obs0]
	if !ok {
		return timestep.TimeStep{}, fmt.Errorf("process: %w",
			observationError(t.config.Obs0, observationKeys(step.Observation)))
	}
	v1, ok := step.Observation[t.config.Obs1]
	if !ok {
		return timestep.TimeStep{}, fmt.Errorf("process: %w",
			observationError(t.config.Obs1, observationKeys(step.Observation)))
	}

	a, err := spec.Float64Values(v0)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	b, err := spec.Float64Values(v1)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	if len(a) != len(b) {
		return timestep.TimeStep{}, fmt.Errorf("process: observations %q "+
			"and %q have %d and %d elements", t.config.Obs0, t.config.Obs1,
			len(a), len(b))
	}

	out := 0.0
	if floats.Distance(a, b, 2) < t.config.Threshold {
		out = t.config.Reward
	}

	dtype := t.dtype
	if !t.haveDtype && step.Reward != nil {
		dtype = step.Reward.Dtype()
	} else if !t.haveDtype {
		dtype = tensor.Float64
	}
	var shape tensor.Shape
	if step.Reward != nil {
		shape = step.Reward.Shape()
	}

	newReward, err := spec.FromFloat64Values([]float64{out}, dtype, shape)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}

	processed := step.ReplaceReward(newReward)
	if err := t.checker.check(step, processed); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	return processed, nil
}
