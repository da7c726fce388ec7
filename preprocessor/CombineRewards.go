package preprocessor

import (
	"fmt"

	"github.com/fogleman/gg"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// CombineRewardsConfig configures a CombineRewards
type CombineRewardsConfig struct {
	// Strategy reduces the rewards collected from the children into the
	// combined reward
	Strategy CombinationStrategy

	// FlattenRewards splices the elements of array-valued child rewards
	// into the collected rewards. Without it, a child producing an
	// array reward is an error.
	FlattenRewards bool

	// OutputShape is the shape of the combined reward. A nil shape
	// emits a scalar reward.
	OutputShape tensor.Shape

	Validation ValidationFrequency
}

// DefaultCombineRewardsConfig returns the default configuration,
// combining flattened child rewards into a scalar with Max
func DefaultCombineRewardsConfig() CombineRewardsConfig {
	return CombineRewardsConfig{
		Strategy:       Max,
		FlattenRewards: true,
		Validation:     ValidateOncePerEpisode,
	}
}

// CombineRewards runs a sequence of preprocessors over each timestep,
// collects the reward each one produces, and replaces the reward of the
// final timestep with a combination of them. Each child processes the
// previous child's output, so children also see each other's
// observation rewrites. The combined values take on the dtype the final
// child declares for its reward.
type CombineRewards struct {
	config   CombineRewardsConfig
	children []TimestepPreprocessor
	checker  specChecker

	outputType     tensor.Dtype
	haveOutputType bool
}

// NewCombineRewards returns a CombineRewards that combines the rewards
// of the given preprocessors
func NewCombineRewards(config CombineRewardsConfig,
	children ...TimestepPreprocessor) (*CombineRewards, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("newCombineRewards: need at least one " +
			"reward preprocessor")
	}
	if config.Strategy == nil {
		return nil, fmt.Errorf("newCombineRewards: no combination strategy")
	}
	return &CombineRewards{
		config:   config,
		children: children,
		checker:  newSpecChecker(config.Validation),
	}, nil
}

// Name returns the name of the preprocessor
func (c *CombineRewards) Name() string {
	return "CombineRewards"
}

// SetupIOSpec chains the children's spec setups in order and declares a
// combined reward of the configured shape, with the dtype of the final
// child's reward spec
func (c *CombineRewards) SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep,
	error) {
	if in == nil {
		return nil, fmt.Errorf("setupIOSpec: no input spec")
	}

	cur := in
	var err error
	for _, child := range c.children {
		cur, err = child.SetupIOSpec(cur)
		if err != nil {
			return nil, fmt.Errorf("setupIOSpec: child %v: %w", child.Name(),
				err)
		}
	}

	c.outputType = cur.Reward().Dtype()
	c.haveOutputType = true

	rewardSpec, err := spec.NewArray(c.config.OutputShape, c.outputType,
		cur.Reward().Name())
	if err != nil {
		return nil, fmt.Errorf("setupIOSpec: %w", err)
	}
	out, err := cur.ReplaceReward(rewardSpec)
	if err != nil {
		return nil, fmt.Errorf("setupIOSpec: %w", err)
	}

	c.checker.setup(in, out)
	return out, nil
}

// Process runs each child over the timestep in order, collects their
// rewards, and replaces the reward of the final timestep with the
// strategy's combination of them
func (c *CombineRewards) Process(step timestep.TimeStep) (timestep.TimeStep,
	error) {
	rewards := make([]float64, 0, len(c.children))

	cur := step
	var err error
	for _, child := range c.children {
		cur, err = child.Process(cur)
		if err != nil {
			return timestep.TimeStep{}, fmt.Errorf("process: child %v: %w",
				child.Name(), err)
		}
		if cur.Reward == nil {
			return timestep.TimeStep{}, fmt.Errorf("process: child %v "+
				"produced no reward", child.Name())
		}

		values, err := spec.Float64Values(cur.Reward)
		if err != nil {
			return timestep.TimeStep{}, fmt.Errorf("process: child %v: %w",
				child.Name(), err)
		}
		switch {
		case len(values) == 1:
			rewards = append(rewards, values[0])
		case c.config.FlattenRewards:
			rewards = append(rewards, values...)
		default:
			return timestep.TimeStep{}, fmt.Errorf("process: child %v "+
				"produced an array reward of %d elements; configure "+
				"FlattenRewards to combine them", child.Name(), len(values))
		}
	}
	if len(rewards) == 0 {
		return timestep.TimeStep{}, fmt.Errorf("process: no rewards " +
			"collected")
	}

	combined := c.config.Strategy(rewards)

	dtype := c.outputType
	if !c.haveOutputType {
		dtype = cur.Reward.Dtype()
	}
	newReward, err := spec.FromFloat64Values(combined, dtype,
		c.config.OutputShape)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: strategy produced "+
			"%d rewards: %w", len(combined), err)
	}

	processed := cur.ReplaceReward(newReward)
	if err := c.checker.check(step, processed); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	return processed, nil
}

// RenderFrame forwards the rendering context to any child that can draw
func (c *CombineRewards) RenderFrame(dc *gg.Context) {
	for _, child := range c.children {
		if renderable, ok := child.(Renderable); ok {
			renderable.RenderFrame(dc)
		}
	}
}
