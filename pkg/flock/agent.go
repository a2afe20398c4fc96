package flock

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// Agent represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
// Fields are exported so the renderer can read them after a step.
type Agent struct {
	Position     geometry.Vector2D `json:"position"`
	Velocity     geometry.Vector2D `json:"velocity"`
	Acceleration geometry.Vector2D `json:"acceleration"`
}

// NewAgent builds an agent at rest in acceleration.
func NewAgent(pos, vel geometry.Vector2D) Agent {
	return Agent{Position: pos, Velocity: vel}
}

// RandomAgent creates an agent at a uniform position inside the domain,
// moving at speed in a uniformly random direction.
func RandomAgent(rng *rand.Rand, domain geometry.Domain, speed float64) Agent {
	theta := rng.Float64() * 2 * math.Pi
	return NewAgent(domain.RandomPoint(rng), geometry.NewVectorPolar(speed, theta))
}

// Heading is the direction of travel in radians, used by renderers.
func (a *Agent) Heading() float64 {
	return a.Velocity.Angle()
}

// Speed is the magnitude of the velocity.
func (a *Agent) Speed() float64 {
	return a.Velocity.Len()
}

// ApplyForce adds f to the acceleration accumulated for this step.
// Non finite forces are dropped.
func (a *Agent) ApplyForce(f geometry.Vector2D) {
	if !f.IsFinite() {
		return
	}
	a.Acceleration = a.Acceleration.Add(f)
}

// Integrate applies the accumulated acceleration to the velocity.
func (a *Agent) Integrate(dt float64) {
	a.Velocity = a.Velocity.Add(a.Acceleration.Mul(dt))
}

// ClampSpeed keeps |velocity| within [minSpeed, maxSpeed] without changing the heading.
// Both bounds are checked independently, a zero velocity cannot be scaled up and stays zero.
func (a *Agent) ClampSpeed(minSpeed, maxSpeed float64) {
	if a.Velocity.IsZero() {
		return
	}
	speed := a.Velocity.Len()
	if speed > maxSpeed {
		a.Velocity = a.Velocity.WithLen(maxSpeed)
		speed = maxSpeed
	}
	if speed < minSpeed {
		a.Velocity = a.Velocity.WithLen(minSpeed)
	}
}

// Move applies the velocity to the position.
func (a *Agent) Move(dt float64) {
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
}

// ResetForces clears the acceleration for the next step.
func (a *Agent) ResetForces() {
	a.Acceleration = geometry.Zero
}

// Contain enforces the boundary policy once the agent has moved.
func (a *Agent) Contain(d geometry.Domain, policy BoundaryPolicy) {
	switch policy {
	case BoundaryBounce:
		a.bounce(d, 0)
	case BoundaryReflect:
		a.bounce(d, BoundaryEpsilon)
	default:
		a.Position = d.Wrap(a.Position)
	}
}

// bounce puts the agent inset inside any edge it crossed and makes the
// crossing velocity component point back inward.
func (a *Agent) bounce(d geometry.Domain, inset float64) {
	// a domain narrower than twice the inset would push the agent through the other edge
	insetX := math.Min(inset, d.Width()/2)
	insetY := math.Min(inset, d.Height()/2)

	if a.Position.X < d.XMin {
		a.Position.X = d.XMin + insetX
		a.Velocity.X = math.Abs(a.Velocity.X)
	} else if a.Position.X > d.XMax {
		a.Position.X = d.XMax - insetX
		a.Velocity.X = -math.Abs(a.Velocity.X)
	}
	if a.Position.Y < d.YMin {
		a.Position.Y = d.YMin + insetY
		a.Velocity.Y = math.Abs(a.Velocity.Y)
	} else if a.Position.Y > d.YMax {
		a.Position.Y = d.YMax - insetY
		a.Velocity.Y = -math.Abs(a.Velocity.Y)
	}
}
