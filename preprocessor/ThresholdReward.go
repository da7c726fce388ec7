package preprocessor

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// ThresholdRewardConfig configures a ThresholdReward
type ThresholdRewardConfig struct {
	// Threshold is the value the incoming reward must meet
	Threshold float64

	// Hi is the reward emitted when the incoming reward meets the
	// threshold, Lo the reward emitted otherwise
	Hi float64
	Lo float64

	Validation ValidationFrequency
}

// DefaultThresholdRewardConfig returns the default configuration,
// emitting 1 when the incoming reward is at least 0.5 and 0 otherwise
func DefaultThresholdRewardConfig() ThresholdRewardConfig {
	return ThresholdRewardConfig{
		Threshold:  0.5,
		Hi:         1.0,
		Lo:         0.0,
		Validation: ValidateOncePerEpisode,
	}
}

// ThresholdReward converts a shaped reward into a sparse one by
// thresholding: the output reward is Hi when the incoming reward is at
// least Threshold and Lo otherwise. The output values take on the
// dtype of the incoming reward spec.
type ThresholdReward struct {
	config  ThresholdRewardConfig
	checker specChecker

	dtype     tensor.Dtype
	haveDtype bool
}

// NewThresholdReward returns a ThresholdReward with the given
// configuration
func NewThresholdReward(config ThresholdRewardConfig) *ThresholdReward {
	return &ThresholdReward{
		config:  config,
		checker: newSpecChecker(config.Validation),
	}
}

// Name returns the name of the preprocessor
func (t *ThresholdReward) Name() string {
	return "ThresholdReward"
}

// SetupIOSpec records the reward dtype and returns the input spec
// unchanged, since thresholding only rewrites reward values
func (t *ThresholdReward) SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep,
	error) {
	if in == nil {
		return nil, fmt.Errorf("setupIOSpec: no input spec")
	}

	t.dtype = in.Reward().Dtype()
	t.haveDtype = true
	t.checker.setup(in, in)
	return in, nil
}

// Process replaces the reward of step with Hi or Lo depending on
// whether it meets the threshold
func (t *ThresholdReward) Process(step timestep.TimeStep) (timestep.TimeStep,
	error) {
	reward, err := spec.ScalarValue(step.Reward)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: reward: %w", err)
	}

	out := t.config.Lo
	if reward >= t.config.Threshold {
		out = t.config.Hi
	}

	dtype := t.dtype
	if !t.haveDtype {
		dtype = step.Reward.Dtype()
	}
	newReward, err := spec.FromFloat64Values([]float64{out}, dtype,
		step.Reward.Shape())
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}

	processed := step.ReplaceReward(newReward)
	if err := t.checker.check(step, processed); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	return processed, nil
}
