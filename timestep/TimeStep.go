// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gorgonia.org/tensor"
)

// StepType denotes the type of step that a TimeStep can be, either a first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment. The
// reward and each named observation are dense tensors so that their
// element types travel with their values. A nil Reward denotes a step
// that carries no reward, such as the first step of an episode.
//
// TimeSteps are treated as immutable records. Preprocessors that change
// a field build a new TimeStep with one of the Replace methods; the
// tensors themselves are shared, never written to in place.
type TimeStep struct {
	stepType    StepType
	Reward      *tensor.Dense
	Discount    float64
	Observation map[string]*tensor.Dense
	Number      int
}

func New(t StepType, reward *tensor.Dense, discount float64,
	observation map[string]*tensor.Dense, number int) TimeStep {
	return TimeStep{t, reward, discount, observation, number}
}

// StepType returns the type of environmental step the TimeStep is
func (t TimeStep) StepType() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

// ReplaceReward returns a copy of the TimeStep carrying the given
// reward. The observation map is shared with the receiver.
func (t TimeStep) ReplaceReward(reward *tensor.Dense) TimeStep {
	t.Reward = reward
	return t
}

// ReplaceDiscount returns a copy of the TimeStep carrying the given
// discount
func (t TimeStep) ReplaceDiscount(discount float64) TimeStep {
	t.Discount = discount
	return t
}

// ReplaceObservation returns a copy of the TimeStep carrying the given
// observation map
func (t TimeStep) ReplaceObservation(
	observation map[string]*tensor.Dense) TimeStep {
	t.Observation = observation
	return t
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %v  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Discount, t.Number)
}
