package flock

import (
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

// Manager owns the agents and runs the per-step force and integration passes.
// Agents keep insertion order, the most recent ones are dropped first on shrink.
type Manager struct {
	Params Parameters
	Agents []Agent

	terms []ForceTerm
}

// NewManager creates an empty flock. Without terms the DefaultPipeline is used.
func NewManager(p Parameters, terms ...ForceTerm) *Manager {
	if len(terms) == 0 {
		terms = DefaultPipeline()
	}
	return &Manager{
		Params: p,
		Agents: make([]Agent, 0, max(p.TargetPopulation, 0)),
		terms:  terms,
	}
}

// Terms returns the force pipeline in evaluation order.
func (m *Manager) Terms() []ForceTerm {
	return m.terms
}

// Len is the live population.
func (m *Manager) Len() int {
	return len(m.Agents)
}

// Add appends an agent.
func (m *Manager) Add(a Agent) {
	m.Agents = append(m.Agents, a)
}

// RemoveLast drops the most recently inserted agent, it is a no-op on an empty flock.
func (m *Manager) RemoveLast() {
	if len(m.Agents) == 0 {
		return
	}
	m.Agents[len(m.Agents)-1] = Agent{}
	m.Agents = m.Agents[:len(m.Agents)-1]
}

// Step runs the two passes: every acceleration is final before any velocity moves.
func (m *Manager) Step(d geometry.Domain, dt float64) {
	m.AccumulateForces(d)
	m.Integrate(d, dt)
}

// AccumulateForces scans every (target, other) pair, i != j, and adds the
// pipeline output to each target acceleration. Positions and velocities are
// only read here, so the order of the targets does not matter.
func (m *Manager) AccumulateForces(d geometry.Domain) {
	p := m.Params
	for i := range m.Agents {
		target := &m.Agents[i]
		for _, term := range m.terms {
			term.Reset()
		}

		for j := range m.Agents {
			if i == j {
				continue
			}
			other := &m.Agents[j]
			rel := d.WrappedDelta(target.Position, other.Position)
			n := Neighbor{Index: j, Agent: other, Relative: rel, Distance: rel.Len()}
			if !canSee(target, n, &p) {
				continue
			}
			for _, term := range m.terms {
				term.Observe(target, n, &p)
			}
		}

		for _, term := range m.terms {
			target.ApplyForce(term.Force(target, d, &p))
		}
	}
}

// canSee applies the field of view gate. A target without a heading sees everything.
func canSee(target *Agent, n Neighbor, p *Parameters) bool {
	if p.FieldOfView == nil {
		return true
	}
	angle, ok := geometry.AngleBetween(target.Velocity, n.Relative)
	if !ok {
		return true
	}
	return angle <= *p.FieldOfView
}

// Integrate moves every agent by dt: velocity, speed clamp, position,
// boundary policy, then the acceleration is cleared.
func (m *Manager) Integrate(d geometry.Domain, dt float64) {
	p := m.Params
	for i := range m.Agents {
		a := &m.Agents[i]
		a.Integrate(dt)
		a.ClampSpeed(p.MinSpeed, p.MaxSpeed)
		a.Move(dt)
		a.Contain(d, p.Boundary)
		a.ResetForces()
	}
}
