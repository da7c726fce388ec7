package preprocessor

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// RewardFunction computes reward values from the observations of a
// timestep
type RewardFunction func(observation map[string]*tensor.Dense) ([]float64,
	error)

// ComputeRewardConfig configures a ComputeReward
type ComputeRewardConfig struct {
	// Function computes the reward values for each timestep
	Function RewardFunction

	// OutputShape is the shape of the emitted reward. A nil shape
	// emits a scalar reward.
	OutputShape tensor.Shape

	Validation ValidationFrequency
}

// DefaultComputeRewardConfig returns the default configuration for a
// scalar reward computed by the given function
func DefaultComputeRewardConfig(function RewardFunction) ComputeRewardConfig {
	return ComputeRewardConfig{
		Function:   function,
		Validation: ValidateOncePerEpisode,
	}
}

// ComputeReward replaces the reward of each timestep with the output of
// an arbitrary function of its observations. The computed values take
// on the dtype of the incoming reward spec.
type ComputeReward struct {
	config  ComputeRewardConfig
	checker specChecker

	dtype     tensor.Dtype
	haveDtype bool
}

// NewComputeReward returns a ComputeReward with the given configuration
func NewComputeReward(config ComputeRewardConfig) (*ComputeReward, error) {
	if config.Function == nil {
		return nil, fmt.Errorf("newComputeReward: no reward function")
	}
	return &ComputeReward{
		config:  config,
		checker: newSpecChecker(config.Validation),
	}, nil
}

// Name returns the name of the preprocessor
func (c *ComputeReward) Name() string {
	return "ComputeReward"
}

// SetupIOSpec declares a reward of the configured shape whose dtype is
// that of the incoming reward spec
func (c *ComputeReward) SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep,
	error) {
	if in == nil {
		return nil, fmt.Errorf("setupIOSpec: no input spec")
	}

	c.dtype = in.Reward().Dtype()
	c.haveDtype = true

	rewardSpec, err := spec.NewArray(c.config.OutputShape, c.dtype,
		in.Reward().Name())
	if err != nil {
		return nil, fmt.Errorf("setupIOSpec: %w", err)
	}
	out, err := in.ReplaceReward(rewardSpec)
	if err != nil {
		return nil, fmt.Errorf("setupIOSpec: %w", err)
	}

	c.checker.setup(in, out)
	return out, nil
}

// Process replaces the reward of step with the output of the reward
// function applied to its observations
func (c *ComputeReward) Process(step timestep.TimeStep) (timestep.TimeStep,
	error) {
	values, err := c.config.Function(step.Observation)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: reward function: %w",
			err)
	}

	dtype := c.dtype
	if !c.haveDtype && step.Reward != nil {
		dtype = step.Reward.Dtype()
	} else if !c.haveDtype {
		dtype = tensor.Float64
	}

	newReward, err := spec.FromFloat64Values(values, dtype,
		c.config.OutputShape)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}

	processed := step.ReplaceReward(newReward)
	if err := c.checker.check(step, processed); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	return processed, nil
}
