// Package rewardconfig provides configuration structs for building
// reward preprocessing pipelines with default parameters. Reward
// pipeline configurations in this package are YAML serializable, so
// experiments can describe their reward shaping in a file instead of
// code.
package rewardconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/preprocessor"
)

// PreprocessorName stores the names of preprocessors that can be
// configured with this package
type PreprocessorName string

// Preprocessors available for configuration
const (
	ThresholdReward     PreprocessorName = "ThresholdReward"
	L2Reward            PreprocessorName = "L2Reward"
	ThresholdedL2Reward PreprocessorName = "ThresholdedL2Reward"
	CombineRewards      PreprocessorName = "CombineRewards"
)

// StrategyName stores the names of combination strategies that can be
// configured for a CombineRewards
type StrategyName string

// Strategies available for configuration
const (
	Max                        StrategyName = "Max"
	Sum                        StrategyName = "Sum"
	StagedWithActiveThreshold  StrategyName = "StagedWithActiveThreshold"
	StagedWithSuccessThreshold StrategyName = "StagedWithSuccessThreshold"
)

// Config describes a single preprocessor in a reward pipeline. Fields
// that do not apply to the configured preprocessor are ignored, and
// omitted fields take their preprocessor's defaults.
type Config struct {
	Preprocessor PreprocessorName `yaml:"preprocessor"`

	// ThresholdReward and ThresholdedL2Reward
	Threshold *float64 `yaml:"threshold,omitempty"`
	Hi        *float64 `yaml:"hi,omitempty"`
	Lo        *float64 `yaml:"lo,omitempty"`

	// L2Reward and ThresholdedL2Reward
	Obs0     string   `yaml:"obs0,omitempty"`
	Obs1     string   `yaml:"obs1,omitempty"`
	Scale    *float64 `yaml:"scale,omitempty"`
	Offset   *float64 `yaml:"offset,omitempty"`
	Reward   *float64 `yaml:"reward,omitempty"`
	KeyCheck string   `yaml:"keyCheck,omitempty"`

	// CombineRewards
	Strategy                StrategyName `yaml:"strategy,omitempty"`
	StrategyThreshold       *float64     `yaml:"strategyThreshold,omitempty"`
	AssumeCumulativeSuccess *bool        `yaml:"assumeCumulativeSuccess,omitempty"`
	FlattenRewards          *bool        `yaml:"flattenRewards,omitempty"`
	OutputShape             []int        `yaml:"outputShape,omitempty"`
	Children                []Config     `yaml:"children,omitempty"`

	Validation string `yaml:"validation,omitempty"`
}

// Load parses a Config from YAML
func Load(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return &config, nil
}

// Create returns the preprocessor described by the Config
func (c *Config) Create() (preprocessor.TimestepPreprocessor, error) {
	validation, err := validationFrequency(c.Validation)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	switch c.Preprocessor {
	case ThresholdReward:
		config := preprocessor.DefaultThresholdRewardConfig()
		if c.Threshold != nil {
			config.Threshold = *c.Threshold
		}
		if c.Hi != nil {
			config.Hi = *c.Hi
		}
		if c.Lo != nil {
			config.Lo = *c.Lo
		}
		config.Validation = validation
		return preprocessor.NewThresholdReward(config), nil

	case L2Reward:
		config := preprocessor.DefaultL2RewardConfig(c.Obs0, c.Obs1)
		if c.Scale != nil {
			config.Scale = *c.Scale
		}
		if c.Offset != nil {
			config.Offset = *c.Offset
		}
		keyCheck, err := keyCheckMode(c.KeyCheck)
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		config.KeyCheck = keyCheck
		config.Validation = validation
		return preprocessor.NewL2Reward(config)

	case ThresholdedL2Reward:
		if c.Threshold == nil {
			return nil, fmt.Errorf("create: %v needs a threshold",
				c.Preprocessor)
		}
		config := preprocessor.DefaultThresholdedL2RewardConfig(c.Obs0,
			c.Obs1, *c.Threshold)
		if c.Reward != nil {
			config.Reward = *c.Reward
		}
		keyCheck, err := keyCheckMode(c.KeyCheck)
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		config.KeyCheck = keyCheck
		config.Validation = validation
		return preprocessor.NewThresholdedL2Reward(config)

	case CombineRewards:
		children := make([]preprocessor.TimestepPreprocessor,
			len(c.Children))
		for i := range c.Children {
			child, err := c.Children[i].Create()
			if err != nil {
				return nil, fmt.Errorf("create: child %d: %w", i, err)
			}
			children[i] = child
		}

		config := preprocessor.DefaultCombineRewardsConfig()
		strategy, err := c.strategy()
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		config.Strategy = strategy
		if c.FlattenRewards != nil {
			config.FlattenRewards = *c.FlattenRewards
		}
		if c.OutputShape != nil {
			config.OutputShape = tensor.Shape(c.OutputShape)
		}
		config.Validation = validation
		return preprocessor.NewCombineRewards(config, children...)

	default:
		return nil, fmt.Errorf("create: cannot create preprocessor %q, no "+
			"such preprocessor", c.Preprocessor)
	}
}

// strategy returns the combination strategy the Config describes. The
// staged strategies take their usual default thresholds when none is
// given: 0.1 for StagedWithActiveThreshold, whose stages fall off once
// later stages become active, and 0.9 for StagedWithSuccessThreshold,
// whose stages must nearly saturate to count as successes.
func (c *Config) strategy() (preprocessor.CombinationStrategy, error) {
	switch c.Strategy {
	case Max, "":
		return preprocessor.Max, nil

	case Sum:
		return preprocessor.Sum, nil

	case StagedWithActiveThreshold:
		threshold := 0.1
		if c.StrategyThreshold != nil {
			threshold = *c.StrategyThreshold
		}
		return preprocessor.StagedWithActiveThreshold(threshold), nil

	case StagedWithSuccessThreshold:
		threshold := 0.9
		if c.StrategyThreshold != nil {
			threshold = *c.StrategyThreshold
		}
		cumulative := true
		if c.AssumeCumulativeSuccess != nil {
			cumulative = *c.AssumeCumulativeSuccess
		}
		return preprocessor.StagedWithSuccessThreshold(threshold,
			cumulative), nil

	default:
		return nil, fmt.Errorf("no such combination strategy %q", c.Strategy)
	}
}

func validationFrequency(name string) (preprocessor.ValidationFrequency,
	error) {
	switch name {
	case "", "oncePerEpisode":
		return preprocessor.ValidateOncePerEpisode, nil
	case "once":
		return preprocessor.ValidateOnce, nil
	case "everyStep":
		return preprocessor.ValidateEveryStep, nil
	case "never":
		return preprocessor.ValidateNever, nil
	default:
		return 0, fmt.Errorf("no such validation frequency %q", name)
	}
}

func keyCheckMode(name string) (preprocessor.KeyCheckMode, error) {
	switch name {
	case "":
		return preprocessor.KeyCheckDefault, nil
	case "eager":
		return preprocessor.KeyCheckEager, nil
	case "lazy":
		return preprocessor.KeyCheckLazy, nil
	default:
		return 0, fmt.Errorf("no such key check mode %q", name)
	}
}
