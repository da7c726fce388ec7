package initializer

import (
	"testing"

	"github.com/ByteArena/box2d"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
)

// testWorld returns a world with one static ground body and two dynamic
// boxes, both moving
func testWorld() (*box2d.B2World, *box2d.B2Body, []*box2d.B2Body) {
	world := box2d.MakeB2World(box2d.MakeB2Vec2(0.0, -10.0))

	groundDef := box2d.MakeB2BodyDef()
	groundDef.Type = 0 // Static body
	groundDef.Position.Set(0.0, -5.0)
	ground := world.CreateBody(&groundDef)
	groundShape := box2d.NewB2PolygonShape()
	groundShape.SetAsBox(10.0, 1.0)
	groundFixture := box2d.MakeB2FixtureDef()
	groundFixture.Shape = groundShape
	ground.CreateFixtureFromDef(&groundFixture)

	var boxes []*box2d.B2Body
	for i := 0; i < 2; i++ {
		boxDef := box2d.MakeB2BodyDef()
		boxDef.Type = 2 // Dynamic body
		boxDef.Position.Set(float64(i)*20.0, 30.0)
		box := world.CreateBody(&boxDef)

		boxShape := box2d.NewB2PolygonShape()
		boxShape.SetAsBox(0.5, 0.5)
		boxFixture := box2d.MakeB2FixtureDef()
		boxFixture.Shape = boxShape
		boxFixture.Density = 1.0
		box.CreateFixtureFromDef(&boxFixture)

		box.SetLinearVelocity(box2d.MakeB2Vec2(3.0, -2.0))
		box.SetAngularVelocity(1.5)
		boxes = append(boxes, box)
	}

	return &world, ground, boxes
}

func TestUniformPlacer(t *testing.T) {
	world, ground, boxes := testWorld()

	xBounds := r1.Interval{Min: -1.0, Max: 1.0}
	yBounds := r1.Interval{Min: 0.0, Max: 2.0}
	placer, err := NewUniformPlacer(xBounds, yBounds)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	if !placer.Initialize(world, rng) {
		t.Fatal("expected initialization to succeed")
	}

	for i, box := range boxes {
		position := box.GetPosition()
		if position.X < xBounds.Min || position.X > xBounds.Max {
			t.Errorf("box %d: x position %v outside bounds", i, position.X)
		}
		if position.Y < yBounds.Min || position.Y > yBounds.Max {
			t.Errorf("box %d: y position %v outside bounds", i, position.Y)
		}

		velocity := box.GetLinearVelocity()
		if velocity.X != 0.0 || velocity.Y != 0.0 {
			t.Errorf("box %d: expected zero velocity, received (%v, %v)",
				i, velocity.X, velocity.Y)
		}
		if box.GetAngularVelocity() != 0.0 {
			t.Errorf("box %d: expected zero angular velocity, received %v",
				i, box.GetAngularVelocity())
		}
	}

	groundPosition := ground.GetPosition()
	if groundPosition.X != 0.0 || groundPosition.Y != -5.0 {
		t.Errorf("static body should not move, received (%v, %v)",
			groundPosition.X, groundPosition.Y)
	}

	if !placer.Reset(world) {
		t.Error("expected reset to succeed")
	}
}

func TestNewUniformPlacerRejectsBadBounds(t *testing.T) {
	good := r1.Interval{Min: 0.0, Max: 1.0}
	bad := r1.Interval{Min: 1.0, Max: 0.0}
	if _, err := NewUniformPlacer(bad, good); err == nil {
		t.Error("expected an error for inverted bounds")
	}
}

type stubInitializer struct {
	succeed bool
	calls   int
}

func (s *stubInitializer) Initialize(world *box2d.B2World,
	rng *rand.Rand) bool {
	s.calls++
	return s.succeed
}

func (s *stubInitializer) Reset(world *box2d.B2World) bool {
	return s.succeed
}

func TestSequentialStopsAtFirstFailure(t *testing.T) {
	first := &stubInitializer{succeed: true}
	second := &stubInitializer{succeed: false}
	third := &stubInitializer{succeed: true}

	world, _, _ := testWorld()
	rng := rand.New(rand.NewSource(13))

	sequential := NewSequential(first, second, third)
	if sequential.Initialize(world, rng) {
		t.Error("expected initialization to fail")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Error("expected the first two initializers to run")
	}
	if third.calls != 0 {
		t.Error("expected the third initializer to be skipped")
	}
}

func TestSequentialSucceeds(t *testing.T) {
	first := &stubInitializer{succeed: true}
	second := &stubInitializer{succeed: true}

	world, _, _ := testWorld()
	rng := rand.New(rand.NewSource(13))

	sequential := NewSequential(first, second)
	if !sequential.Initialize(world, rng) {
		t.Error("expected initialization to succeed")
	}
	if !sequential.Reset(world) {
		t.Error("expected reset to succeed")
	}
}
