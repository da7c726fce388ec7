package spec

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/goflow/timestep"
)

// TimeStep describes the reward, discount, and observations of the
// timesteps an environment produces. Preprocessors receive a TimeStep
// describing their input and derive from it a TimeStep describing
// their output.
type TimeStep struct {
	reward      Spec
	discount    *Bounded
	observation map[string]Spec
}

// NewTimeStep returns a new TimeStep spec. The observation map is
// copied. A nil observation map describes a timestep with no
// observations.
func NewTimeStep(reward Spec, discount *Bounded,
	observation map[string]Spec) (*TimeStep, error) {
	if reward == nil {
		return nil, fmt.Errorf("newTimeStep: no reward spec")
	}
	if discount == nil {
		return nil, fmt.Errorf("newTimeStep: no discount spec")
	}
	if totalSize(discount.Shape()) != 1 {
		return nil, fmt.Errorf("newTimeStep: discount spec must be scalar "+
			"but has shape %v", discount.Shape())
	}

	obs := make(map[string]Spec, len(observation))
	for key, s := range observation {
		if s == nil {
			return nil, fmt.Errorf("newTimeStep: nil spec for observation %q",
				key)
		}
		obs[key] = s
	}

	return &TimeStep{reward: reward, discount: discount, observation: obs},
		nil
}

// Reward returns the reward spec
func (t *TimeStep) Reward() Spec {
	return t.reward
}

// Discount returns the discount spec
func (t *TimeStep) Discount() *Bounded {
	return t.discount
}

// Observation returns the spec of the named observation
func (t *TimeStep) Observation(key string) (Spec, bool) {
	s, ok := t.observation[key]
	return s, ok
}

// ObservationKeys returns the names of all observations in sorted order
func (t *TimeStep) ObservationKeys() []string {
	keys := make([]string, 0, len(t.observation))
	for key := range t.observation {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ReplaceReward returns a copy of the TimeStep carrying the given
// reward spec. The observation map is shared with the receiver.
func (t *TimeStep) ReplaceReward(reward Spec) (*TimeStep, error) {
	if reward == nil {
		return nil, fmt.Errorf("replaceReward: no reward spec")
	}
	return &TimeStep{
		reward:      reward,
		discount:    t.discount,
		observation: t.observation,
	}, nil
}

// ReplaceObservation returns a copy of the TimeStep carrying the given
// observation specs. The map is copied as in NewTimeStep.
func (t *TimeStep) ReplaceObservation(
	observation map[string]Spec) (*TimeStep, error) {
	obs := make(map[string]Spec, len(observation))
	for key, s := range observation {
		if s == nil {
			return nil, fmt.Errorf("replaceObservation: nil spec for "+
				"observation %q", key)
		}
		obs[key] = s
	}
	return &TimeStep{
		reward:      t.reward,
		discount:    t.discount,
		observation: obs,
	}, nil
}

// Validate checks a timestep against the spec. A nil reward is
// permitted since the first step of an episode carries no reward.
// Observations must match the spec exactly, with no keys missing and
// none unaccounted for.
func (t *TimeStep) Validate(step timestep.TimeStep, nan NaNPolicy) error {
	if step.Reward != nil {
		if err := Validate(t.reward, step.Reward, nan); err != nil {
			return fmt.Errorf("validate: reward: %w", err)
		}
	}

	min := t.discount.Minimum()[0]
	max := t.discount.Maximum()[0]
	if step.Discount < min || step.Discount > max {
		return fmt.Errorf("%w: discount %v outside [%v, %v]",
			ErrInvalidValue, step.Discount, min, max)
	}

	for key, s := range t.observation {
		value, ok := step.Observation[key]
		if !ok {
			return fmt.Errorf("%w: missing observation %q", ErrInvalidValue,
				key)
		}
		if err := Validate(s, value, nan); err != nil {
			return fmt.Errorf("validate: observation %q: %w", key, err)
		}
	}
	for key := range step.Observation {
		if _, ok := t.observation[key]; !ok {
			return fmt.Errorf("%w: unexpected observation %q",
				ErrInvalidValue, key)
		}
	}
	return nil
}
