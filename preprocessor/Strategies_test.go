package preprocessor

import (
	"math"
	"testing"
)

const threshold = 0.000001

func TestMax(t *testing.T) {
	combined := Max([]float64{0.1, 0.9, 0.5})
	if len(combined) != 1 || combined[0] != 0.9 {
		t.Errorf("expected [0.9], received %v", combined)
	}
}

func TestSum(t *testing.T) {
	combined := Sum([]float64{0.1, 0.9, 0.5})
	if len(combined) != 1 || math.Abs(combined[0]-1.5) > threshold {
		t.Errorf("expected [1.5], received %v", combined)
	}
}

func TestStagedWithActiveThreshold(t *testing.T) {
	strategy := StagedWithActiveThreshold(0.9)

	// The last stage meeting the threshold is the second of three, so
	// the combined reward lands in the second stage's interval
	combined := strategy([]float64{0.95, 0.92, 0.6})
	expected := (1.0 + 0.92) / 3.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}

	// The final stage is active, so its value dominates
	combined = strategy([]float64{0.2, 0.3, 0.95})
	expected = (2.0 + 0.95) / 3.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}
}

func TestStagedWithActiveThresholdNoActiveStage(t *testing.T) {
	strategy := StagedWithActiveThreshold(0.9)

	// No stage meets the threshold, so the scan exhausts at the first
	// stage and its value is scaled into the first interval
	combined := strategy([]float64{0.2, 0.1})
	if math.Abs(combined[0]-0.1) > threshold {
		t.Errorf("expected 0.1, received %v", combined[0])
	}
}

func TestStagedWithActiveThresholdClipsRewards(t *testing.T) {
	strategy := StagedWithActiveThreshold(0.9)

	combined := strategy([]float64{1.5, -0.5})
	// The first stage clips to 1.0 and is active; the second clips to
	// 0.0 and is not
	expected := (0.0 + 1.0) / 2.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}
}

func TestStagedWithSuccessThresholdCumulative(t *testing.T) {
	strategy := StagedWithSuccessThreshold(0.9, true)

	// The first two stages exceed the threshold, so two stages are
	// solved and the third stage's value fills out the reward
	combined := strategy([]float64{0.95, 0.92, 0.6})
	expected := (2.0 + 0.6) / 3.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}

	// A stage whose reward decayed after a later stage succeeded still
	// counts as solved
	combined = strategy([]float64{0.2, 0.95, 0.1})
	expected = (2.0 + 0.1) / 3.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}
}

func TestStagedWithSuccessThresholdNonCumulative(t *testing.T) {
	strategy := StagedWithSuccessThreshold(0.9, false)

	// Only the leading run of successes counts, so the decayed first
	// stage stops the count immediately
	combined := strategy([]float64{0.2, 0.95, 0.1})
	expected := (0.0 + 0.2) / 3.0
	if math.Abs(combined[0]-expected) > threshold {
		t.Errorf("expected %v, received %v", expected, combined[0])
	}
}

func TestStagedWithSuccessThresholdAllSolved(t *testing.T) {
	strategy := StagedWithSuccessThreshold(0.9, true)

	// The solved count is capped at n-1 so the final stage's value
	// always participates
	combined := strategy([]float64{1.0, 1.0, 1.0})
	if math.Abs(combined[0]-1.0) > threshold {
		t.Errorf("expected 1.0, received %v", combined[0])
	}
}
