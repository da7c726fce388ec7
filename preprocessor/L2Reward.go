package preprocessor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

// L2RewardConfig configures an L2Reward
type L2RewardConfig struct {
	// Obs0 and Obs1 name the two observations whose distance drives the
	// reward
	Obs0 string
	Obs1 string

	// Scale multiplies the distance and Offset shifts it, so the reward
	// is -distance*Scale + Offset
	Scale  float64
	Offset float64

	// KeyCheck controls when the observation keys are confirmed to
	// exist. By default an L2Reward checks lazily, failing at Process
	// when a timestep arrives without one of the keys.
	KeyCheck KeyCheckMode

	Validation ValidationFrequency
}

// DefaultL2RewardConfig returns the default configuration for a reward
// driven by the distance between the two named observations
func DefaultL2RewardConfig(obs0, obs1 string) L2RewardConfig {
	return L2RewardConfig{
		Obs0:       obs0,
		Obs1:       obs1,
		Scale:      1.0,
		Offset:     1.0,
		KeyCheck:   KeyCheckDefault,
		Validation: ValidateOncePerEpisode,
	}
}

// L2Reward emits a dense reward from the L2 distance between two
// observations, typically the position of an effector and its target.
// The reward is -distance*Scale + Offset, so with the default scale and
// offset the reward approaches 1 as the observations approach each
// other. The output dtype is the promotion of the two observation
// dtypes.
type L2Reward struct {
	config  L2RewardConfig
	checker specChecker

	outputType     tensor.Dtype
	haveOutputType bool
}

// NewL2Reward returns an L2Reward with the given configuration
func NewL2Reward(config L2RewardConfig) (*L2Reward, error) {
	if config.Obs0 == "" || config.Obs1 == "" {
		return nil, fmt.Errorf("newL2Reward: need two observation keys")
	}
	return &L2Reward{
		config:  config,
		checker: newSpecChecker(config.Validation),
	}, nil
}

// Name returns the name of the preprocessor
func (l *L2Reward) Name() string {
	return "L2Reward"
}

func (l *L2Reward) eager() bool {
	return l.config.KeyCheck == KeyCheckEager
}

// SetupIOSpec declares a scalar reward whose dtype is the promotion of
// the two observation dtypes. With lazy key checking, missing keys
// leave the reward spec unchanged and the dtype is resolved from the
// first processed timestep instead.
func (l *L2Reward) SetupIOSpec(in *spec.TimeStep) (*spec.TimeStep, error) {
	if in == nil {
		return nil, fmt.Errorf("setupIOSpec: no input spec")
	}

	s0, ok0 := in.Observation(l.config.Obs0)
	s1, ok1 := in.Observation(l.config.Obs1)
	if l.eager() {
		if !ok0 {
			return nil, fmt.Errorf("setupIOSpec: %w",
				observationError(l.config.Obs0, in.ObservationKeys()))
		}
		if !ok1 {
			return nil, fmt.Errorf("setupIOSpec: %w",
				observationError(l.config.Obs1, in.ObservationKeys()))
		}
	}

	out := in
	if ok0 && ok1 {
		promoted, err := spec.PromoteTypes(s0.Dtype(), s1.Dtype())
		if err != nil {
			return nil, fmt.Errorf("setupIOSpec: %w", err)
		}
		l.outputType = promoted
		l.haveOutputType = true

		rewardSpec, err := spec.NewArray(nil, promoted, in.Reward().Name())
		if err != nil {
			return nil, fmt.Errorf("setupIOSpec: %w", err)
		}
		out, err = in.ReplaceReward(rewardSpec)
		if err != nil {
			return nil, fmt.Errorf("setupIOSpec: %w", err)
		}
	}

	l.checker.setup(in, out)
	return out, nil
}

// Process replaces the reward of step with -distance*Scale + Offset,
// where distance is the L2 distance between the two observations
func (l *L2Reward) Process(step timestep.TimeStep) (timestep.TimeStep,
	error) {
	v0, ok := step.Observation[l.config.Obs0]
	if !ok {
		return timestep.TimeStep{}, fmt.Errorf("process: %w",
			observationError(l.config.Obs0, observationKeys(step.Observation)))
	}
	v1, ok := step.Observation[l.config.Obs1]
	if !ok {
		return timestep.TimeStep{}, fmt.Errorf("process: %w",
			observationError(l.config.Obs1, observationKeys(step.Observation)))
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
			"and %q have %d and %d elements", l.config.Obs0, l.config.Obs1,
			len(a), len(b))
	}

	if !l.haveOutputType {
		promoted, err := spec.PromoteTypes(v0.Dtype(), v1.Dtype())
		if err != nil {
			return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
		}
		l.outputType = promoted
		l.haveOutputType = true
	}

	distance := floats.Distance(a, b, 2)
	reward := -1.0*distance*l.config.Scale + l.config.Offset

	newReward, err := spec.FromFloat64Values([]float64{reward}, l.outputType,
		nil)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}

	processed := step.ReplaceReward(newReward)
	if err := l.checker.check(step, processed); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("process: %w", err)
	}
	return processed, nil
}
