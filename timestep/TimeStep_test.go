package timestep

import (
	"testing"

	"gorgonia.org/tensor"
)

func TestStepType(t *testing.T) {
	step := New(First, nil, 1.0, nil, 0)
	if !step.First() || step.Mid() || step.Last() {
		t.Error("expected a First step")
	}

	step = New(Mid, nil, 1.0, nil, 1)
	if step.First() || !step.Mid() || step.Last() {
		t.Error("expected a Mid step")
	}

	step = New(Last, nil, 0.0, nil, 2)
	if step.First() || step.Mid() || !step.Last() {
		t.Error("expected a Last step")
	}
}

func TestReplaceReward(t *testing.T) {
	reward := tensor.New(tensor.FromScalar(1.0))
	obs := map[string]*tensor.Dense{
		"position": tensor.New(
			tensor.WithShape(2),
			tensor.WithBacking([]float64{0.5, -0.5}),
		),
	}
	step := New(Mid, reward, 1.0, obs, 3)

	newReward := tensor.New(tensor.FromScalar(-1.0))
	replaced := step.ReplaceReward(newReward)

	if replaced.Reward != newReward {
		t.Error("replaced step should carry the new reward")
	}
	if step.Reward != reward {
		t.Error("original step should be unchanged")
	}
	if replaced.Number != step.Number || replaced.StepType() != Mid {
		t.Error("unrelated fields should be preserved")
	}
	if replaced.Observation["position"] != obs["position"] {
		t.Error("observation map should be shared")
	}
}
