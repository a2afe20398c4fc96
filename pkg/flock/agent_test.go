package flock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

func TestAgent_ClampSpeed(t *testing.T) {
	tests := []struct {
		name      string
		velocity  geometry.Vector2D
		wantSpeed float64
	}{
		{"too fast", vec(30, 40), 10},
		{"too slow", vec(0.3, 0.4), 2},
		{"in range", vec(3, 4), 5},
		{"zero cannot be rescaled", vec(0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAgent(vec(0, 0), tt.velocity)
			a.ClampSpeed(2, 10)
			if math.Abs(a.Speed()-tt.wantSpeed) > 1e-9 {
				t.Errorf("speed = %v; want %v", a.Speed(), tt.wantSpeed)
			}
			if tt.wantSpeed > 0 {
				if angle, _ := geometry.AngleBetween(a.Velocity, tt.velocity); angle > 1e-9 {
					t.Errorf("heading changed by %v rad", angle)
				}
			}
		})
	}
}

func TestAgent_ApplyForceDropsNonFinite(t *testing.T) {
	a := NewAgent(vec(0, 0), vec(1, 0))
	a.ApplyForce(vec(1, 2))
	a.ApplyForce(vec(math.NaN(), 0))
	a.ApplyForce(vec(0, math.Inf(1)))
	if !a.Acceleration.Eq(vec(1, 2)) {
		t.Errorf("acceleration = %v; want (1, 2)", a.Acceleration)
	}
}

func TestAgent_Contain(t *testing.T) {
	d := geometry.NewDomain(100, 100, false)
	tests := []struct {
		name    string
		policy  BoundaryPolicy
		pos     geometry.Vector2D
		vel     geometry.Vector2D
		wantPos geometry.Vector2D
		wantVel geometry.Vector2D
	}{
		{"wrap right", BoundaryWrap, vec(102, 50), vec(3, 1), vec(2, 50), vec(3, 1)},
		{"wrap top and left", BoundaryWrap, vec(-1, 101), vec(-2, 2), vec(99, 1), vec(-2, 2)},
		{"bounce right", BoundaryBounce, vec(102, 50), vec(3, 1), vec(100, 50), vec(-3, 1)},
		{"bounce bottom", BoundaryBounce, vec(40, -4), vec(1, -5), vec(40, 0), vec(1, 5)},
		{"reflect left", BoundaryReflect, vec(-2, 30), vec(-4, 0), vec(BoundaryEpsilon, 30), vec(4, 0)},
		{"reflect top", BoundaryReflect, vec(60, 100.5), vec(0, 2), vec(60, 100-BoundaryEpsilon), vec(0, -2)},
		{"inside untouched", BoundaryReflect, vec(50, 50), vec(1, 1), vec(50, 50), vec(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAgent(tt.pos, tt.vel)
			a.Contain(d, tt.policy)
			if !a.Position.EqTol(tt.wantPos, 1e-9) {
				t.Errorf("position = %v; want %v", a.Position, tt.wantPos)
			}
			if !a.Velocity.Eq(tt.wantVel) {
				t.Errorf("velocity = %v; want %v", a.Velocity, tt.wantVel)
			}
		})
	}
}

func TestAgent_ReflectIsStrictlyInside(t *testing.T) {
	d := geometry.NewDomain(10, 10, false)
	a := NewAgent(vec(10.2, -0.1), vec(1, -1))
	a.Contain(d, BoundaryReflect)
	if a.Position.X >= d.XMax || a.Position.Y <= d.YMin {
		t.Errorf("reflected position %v is still on an edge", a.Position)
	}
}

func TestRandomAgent(t *testing.T) {
	d := geometry.Domain{XMin: 10, XMax: 20, YMin: -5, YMax: 5}
	rng := rand.New(rand.NewPCG(4, 2))
	for i := 0; i < 200; i++ {
		a := RandomAgent(rng, d, 3)
		if !d.Contains(a.Position) {
			t.Fatalf("RandomAgent position %v outside %s", a.Position, d)
		}
		if math.Abs(a.Speed()-3) > 1e-9 {
			t.Fatalf("RandomAgent speed = %v; want 3", a.Speed())
		}
		if a.Acceleration != geometry.Zero {
			t.Fatalf("RandomAgent acceleration = %v; want zero", a.Acceleration)
		}
	}
}
