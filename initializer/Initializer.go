// Package initializer implements scene initializers, which prepare a
// physics world before an episode begins and report whether setup
// succeeded. Environments run their initializers on every episode
// start, retrying or failing the episode when an initializer reports
// failure.
package initializer

import (
	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
)

// Initializer prepares a physics world for a new episode
type Initializer interface {
	// Initialize prepares the world, drawing any randomness it needs
	// from rng, and reports whether the world is ready
	Initialize(world *box2d.B2World, rng *rand.Rand) bool

	// Reset restores any state the initializer keeps between episodes
	// and reports whether it succeeded
	Reset(world *box2d.B2World) bool
}

// Sequential composes initializers, running each in order
type Sequential struct {
	initializers []Initializer
}

// NewSequential returns an Initializer that runs each of initializers
// in order, stopping at the first failure
func NewSequential(initializers ...Initializer) *Sequential {
	return &Sequential{initializers: initializers}
}

// Initialize runs each composed initializer in order and reports
// whether all of them succeeded. Initializers after the first failure
// do not run.
func (s *Sequential) Initialize(world *box2d.B2World, rng *rand.Rand) bool {
	for _, initializer := range s.initializers {
		if !initializer.Initialize(world, rng) {
			return false
		}
	}
	return true
}

// Reset resets each composed initializer in order, stopping at the
// first failure
func (s *Sequential) Reset(world *box2d.B2World) bool {
	for _, initializer := range s.initializers {
		if !initializer.Reset(world) {
			return false
		}
	}
	return true
}
