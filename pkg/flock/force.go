package flock

import "github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"

// MinSeparationDistance is the distance under which inverse square terms are skipped.
const MinSeparationDistance = 1e-6

// Neighbor is another agent as seen from the agent being updated.
type Neighbor struct {
	Index    int
	Agent    *Agent
	Relative geometry.Vector2D // Domain.WrappedDelta(target.Position, other.Position)
	Distance float64
}

// ForceTerm is one steering rule of the flock.
// For each target the Manager calls Reset, then Observe for every visible
// neighbor, then Force once. Terms keep their accumulator between those calls,
// so a pipeline must not be shared by concurrent steps.
type ForceTerm interface {
	Name() string
	Reset()
	Observe(target *Agent, n Neighbor, p *Parameters)
	Force(target *Agent, d geometry.Domain, p *Parameters) geometry.Vector2D
}

// DefaultPipeline returns the classic rules in their fixed order.
func DefaultPipeline() []ForceTerm {
	return []ForceTerm{
		&Cohesion{},
		&Alignment{},
		&Separation{},
		&WallRepulsion{},
	}
}

// Cohesion pulls an agent toward the average relative position of its neighbors.
type Cohesion struct {
	sum   geometry.Vector2D
	count int
}

func (c *Cohesion) Name() string { return "cohesion" }

func (c *Cohesion) Reset() {
	c.sum, c.count = geometry.Zero, 0
}

func (c *Cohesion) Observe(_ *Agent, n Neighbor, p *Parameters) {
	if n.Distance > p.NeighborRadius {
		return
	}
	c.sum = c.sum.Add(n.Relative)
	c.count++
}

func (c *Cohesion) Force(_ *Agent, _ geometry.Domain, p *Parameters) geometry.Vector2D {
	if c.count == 0 {
		return geometry.Zero
	}
	center, err := c.sum.Div(float64(c.count))
	if err != nil {
		return geometry.Zero
	}
	return center.Mul(p.CohesionWeight)
}

// Alignment steers an agent toward the average velocity of its neighbors.
// The term vanishes once the agent already flies like them.
type Alignment struct {
	sum   geometry.Vector2D
	count int
}

func (a *Alignment) Name() string { return "alignment" }

func (a *Alignment) Reset() {
	a.sum, a.count = geometry.Zero, 0
}

func (a *Alignment) Observe(_ *Agent, n Neighbor, p *Parameters) {
	if n.Distance > p.NeighborRadius {
		return
	}
	a.sum = a.sum.Add(n.Agent.Velocity)
	a.count++
}

func (a *Alignment) Force(target *Agent, _ geometry.Domain, p *Parameters) geometry.Vector2D {
	if a.count == 0 {
		return geometry.Zero
	}
	avg, err := a.sum.Div(float64(a.count))
	if err != nil {
		return geometry.Zero
	}
	return avg.Sub(target.Velocity).Mul(p.AlignmentWeight)
}

// Separation pushes an agent away from every neighbor inside its personal
// space with an inverse square repulsion. Contributions are summed, not averaged.
type Separation struct {
	sum geometry.Vector2D
}

func (s *Separation) Name() string { return "separation" }

func (s *Separation) Reset() {
	s.sum = geometry.Zero
}

func (s *Separation) Observe(_ *Agent, n Neighbor, p *Parameters) {
	if n.Distance > p.SeparationRadius || n.Distance <= MinSeparationDistance {
		return
	}
	s.sum = s.sum.Sub(n.Relative.Mul(1 / (n.Distance * n.Distance)))
}

func (s *Separation) Force(_ *Agent, _ geometry.Domain, p *Parameters) geometry.Vector2D {
	return s.sum.Mul(p.SeparationWeight)
}

// WallRepulsion keeps agents off the domain edges when Parameters.Walls is set.
// It only depends on the target, neighbors are ignored.
type WallRepulsion struct{}

func (w *WallRepulsion) Name() string { return "walls" }

func (w *WallRepulsion) Reset() {}

func (w *WallRepulsion) Observe(*Agent, Neighbor, *Parameters) {}

func (w *WallRepulsion) Force(target *Agent, d geometry.Domain, p *Parameters) geometry.Vector2D {
	if p.Walls == nil {
		return geometry.Zero
	}
	var f geometry.Vector2D
	pos := target.Position
	f.X += wallPush(pos.X-d.XMin, p.Walls)
	f.X -= wallPush(d.XMax-pos.X, p.Walls)
	f.Y += wallPush(pos.Y-d.YMin, p.Walls)
	f.Y -= wallPush(d.YMax-pos.Y, p.Walls)
	return f
}

// wallPush is the inward magnitude for an edge at distance dist.
func wallPush(dist float64, w *WallAvoidance) float64 {
	if dist >= w.Margin || dist <= MinSeparationDistance {
		return 0
	}
	return w.Strength / (dist * dist)
}
