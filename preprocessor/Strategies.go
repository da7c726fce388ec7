package preprocessor

import (
	"github.com/samuelfneumann/goflow/utils/floatutils"
)

// CombinationStrategy reduces the rewards collected from a sequence of
// preprocessors into one or more combined rewards. Strategies require
// at least one reward and panic on an empty slice, which CombineRewards
// guarantees never happens.
type CombinationStrategy func(rewards []float64) []float64

// Max combines rewards by taking the largest
func Max(rewards []float64) []float64 {
	if len(rewards) == 0 {
		panic("max: no rewards to combine")
	}
	return []float64{floatutils.Max(rewards...)}
}

// Sum combines rewards by adding them
func Sum(rewards []float64) []float64 {
	if len(rewards) == 0 {
		panic("sum: no rewards to combine")
	}
	total := 0.0
	for _, reward := range rewards {
		total += reward
	}
	return []float64{total}
}

// StagedWithActiveThreshold treats the rewards as stages of a task,
// ordered from first to last, and emits a single reward reflecting the
// latest stage that is active, meaning its reward meets the threshold.
//
// Rewards are clipped to [0, 1] first. Scanning from the last stage
// backward, the first stage i (zero-indexed) whose clipped reward r
// meets the threshold yields a combined reward of (i + r) / n, where n
// is the number of stages. Each stage therefore occupies its own
// interval of the combined reward, and within a stage the combined
// reward grows with the stage's own shaped reward. If no stage meets
// the threshold, the combined reward is the first stage's reward
// scaled into the first interval.
//
// This strategy suits stages whose shaped rewards fall off as later
// stages become active, such as a reach reward that decays while a
// grasp reward grows.
func StagedWithActiveThreshold(threshold float64) CombinationStrategy {
	return func(rewards []float64) []float64 {
		if len(rewards) == 0 {
			panic("stagedWithActiveThreshold: no rewards to combine")
		}

		clipped := floatutils.ClipSlice(rewards, 0.0, 1.0)
		n := float64(len(clipped))

		last := 0.0
		for j := range clipped {
			last = clipped[len(clipped)-1-j]
			if last >= threshold {
				return []float64{(n - float64(j+1) + last) / n}
			}
		}
		return []float64{last / n}
	}
}

// StagedWithSuccessThreshold treats the rewards as stages of a task,
// ordered from first to last, and emits a single reward reflecting how
// many stages have succeeded, meaning their rewards exceed the
// threshold.
//
// Rewards are clipped to [0, 1] first. With assumeCumulativeSuccess,
// every stage up to the last successful one counts as solved, so a
// stage whose reward has decayed after a later stage succeeded still
// counts. Otherwise only the leading run of successful stages counts.
// The combined reward is (s + r_s) / n, where s is the number of solved
// stages, capped at n-1, and r_s is the clipped reward of the first
// unsolved stage.
func StagedWithSuccessThreshold(threshold float64,
	assumeCumulativeSuccess bool) CombinationStrategy {
	return func(rewards []float64) []float64 {
		if len(rewards) == 0 {
			panic("stagedWithSuccessThreshold: no rewards to combine")
		}

		clipped := floatutils.ClipSlice(rewards, 0.0, 1.0)
		n := len(clipped)

		solved := 0
		if assumeCumulativeSuccess {
			for i := range clipped {
				if clipped[i] > threshold {
					solved = i + 1
				}
			}
		} else {
			for solved < n && clipped[solved] > threshold {
				solved++
			}
		}
		if solved > n-1 {
			solved = n - 1
		}

		return []float64{(float64(solved) + clipped[solved]) / float64(n)}
	}
}
