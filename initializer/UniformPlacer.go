package initializer

import (
	"fmt"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformPlacer places the dynamic bodies of a world uniformly at
// random within rectangular bounds, zeroing their velocities. Static
// and kinematic bodies are left where they are.
type UniformPlacer struct {
	bounds []r1.Interval
}

// NewUniformPlacer returns an Initializer placing dynamic bodies
// within the given x and y bounds
func NewUniformPlacer(xBounds, yBounds r1.Interval) (*UniformPlacer, error) {
	for _, interval := range []r1.Interval{xBounds, yBounds} {
		if interval.Min > interval.Max {
			return nil, fmt.Errorf("newUniformPlacer: interval minimum %v "+
				"exceeds maximum %v", interval.Min, interval.Max)
		}
	}
	return &UniformPlacer{bounds: []r1.Interval{xBounds, yBounds}}, nil
}

// Initialize moves every dynamic body in the world to a position drawn
// uniformly from the bounds and zeroes its velocity
func (u *UniformPlacer) Initialize(world *box2d.B2World,
	rng *rand.Rand) bool {
	if world == nil {
		return false
	}

	dist := distmv.NewUniform(u.bounds, rng)
	for body := world.GetBodyList(); body != nil; body = body.GetNext() {
		if body.GetType() != 2 { // Only dynamic bodies are placed
			continue
		}

		position := dist.Rand(nil)
		body.SetTransform(box2d.MakeB2Vec2(position[0], position[1]),
			body.GetAngle())
		body.SetLinearVelocity(box2d.MakeB2Vec2(0.0, 0.0))
		body.SetAngularVelocity(0.0)
	}
	return true
}

// Reset reports success, since the placer keeps no state between
// episodes
func (u *UniformPlacer) Reset(world *box2d.B2World) bool {
	return true
}
