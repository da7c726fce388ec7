package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goflow/actionspace"
	"github.com/samuelfneumann/goflow/preprocessor/rewardconfig"
	"github.com/samuelfneumann/goflow/spec"
	"github.com/samuelfneumann/goflow/timestep"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr,
		TimeFormat: time.RFC3339})

	// Tighten a joint-velocity spec and project actions through it
	base, _ := spec.NewBounded([]int{2}, tensor.Float64,
		[]float64{-1.0}, []float64{1.0}, "joint/v0\tjoint/v1")
	inner, _ := actionspace.NewIdentity(base)
	space, _ := actionspace.NewConstrained(inner, []float64{-0.5},
		[]float64{0.5})

	action := tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]float64{0.25, -0.4}))
	projected, _ := space.Project(action)
	fmt.Println("projected:", projected)

	// Within the base bounds but outside the tightened ones
	outOfRange := tensor.New(tensor.WithShape(2),
		tensor.WithBacking([]float64{0.75, 0.0}))
	if _, err := space.Project(outOfRange); err != nil {
		fmt.Println("rejected:", err)
	}

	// A prefix that matches no actuator logs a structured warning
	slicer, _ := actionspace.PrefixSlicer(base, "gripper/", 0.0, log.Logger)
	fmt.Println("slicer accepts shape:", slicer.Spec().Shape())

	// Assemble a staged reach-then-carry reward from YAML
	pipeline := []byte(`
preprocessor: CombineRewards
strategy: StagedWithSuccessThreshold
children:
  - preprocessor: ThresholdedL2Reward
    obs0: effector_pos
    obs1: object_pos
    threshold: 0.1
  - preprocessor: L2Reward
    obs0: object_pos
    obs1: target_pos
`)
	config, err := rewardconfig.Load(pipeline)
	if err != nil {
		panic(err)
	}
	staged, err := config.Create()
	if err != nil {
		panic(err)
	}
	if _, err := staged.SetupIOSpec(pipelineSpec()); err != nil {
		panic(err)
	}

	episode := []timestep.TimeStep{
		pipelineStep(timestep.First, 0, 0.5, 1.0),
		pipelineStep(timestep.Mid, 1, 0.05, 0.4),
		pipelineStep(timestep.Mid, 2, 0.05, 0.02),
	}
	for _, step := range episode {
		processed, err := staged.Process(step)
		if err != nil {
			panic(err)
		}
		reward, err := spec.ScalarValue(processed.Reward)
		if err != nil {
			panic(err)
		}
		fmt.Printf("step %d: staged reward %.4f\n", step.Number, reward)
	}
}

func pipelineSpec() *spec.TimeStep {
	reward, _ := spec.NewArray(nil, tensor.Float64, "reward")
	discount, _ := spec.NewBounded(nil, tensor.Float64, []float64{0.0},
		[]float64{1.0}, "discount")
	position, _ := spec.NewArray([]int{2}, tensor.Float64, "effector_pos")
	object, _ := spec.NewArray([]int{2}, tensor.Float64, "object_pos")
	target, _ := spec.NewArray([]int{2}, tensor.Float64, "target_pos")

	in, _ := spec.NewTimeStep(reward, discount, map[string]spec.Spec{
		"effector_pos": position,
		"object_pos":   object,
		"target_pos":   target,
	})
	return in
}

// pipelineStep lays the three positions out on a line so that the
// stage distances are exactly reachDist and carryDist.
func pipelineStep(t timestep.StepType, number int, reachDist,
	carryDist float64) timestep.TimeStep {
	observation := map[string]*tensor.Dense{
		"effector_pos": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]float64{-reachDist, 0.0})),
		"object_pos": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]float64{0.0, 0.0})),
		"target_pos": tensor.New(tensor.WithShape(2),
			tensor.WithBacking([]float64{carryDist, 0.0})),
	}
	return timestep.New(t, tensor.New(tensor.FromScalar(0.0)), 1.0,
		observation, number)
}
