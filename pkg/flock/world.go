package flock

import (
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

// World drives the simulation: it owns the domain and the flock,
// advances them one step at a time and keeps the population on target.
// It is not safe for concurrent use, hosts serialise Update against
// parameter changes (see simulation.FlockActor).
type World struct {
	Domain  geometry.Domain
	Manager *Manager

	rng    *rand.Rand
	logger log.Logger
	steps  uint64
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for population changes.
func WithLogger(l log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSeed makes agent creation reproducible.
func WithSeed(seed uint64) Option {
	return func(w *World) {
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses the given source for agent creation.
func WithRand(rng *rand.Rand) Option {
	return func(w *World) {
		if rng != nil {
			w.rng = rng
		}
	}
}

// WithTerms replaces the default force pipeline.
func WithTerms(terms ...ForceTerm) Option {
	return func(w *World) {
		if len(terms) > 0 {
			w.Manager.terms = terms
		}
	}
}

// NewWorld creates a world and immediately spawns the target population.
func NewWorld(d geometry.Domain, p Parameters, opts ...Option) *World {
	seed := uint64(time.Now().UnixNano())
	w := &World{
		Domain:  d,
		Manager: NewManager(p),
		rng:     rand.New(rand.NewPCG(seed, seed>>1)),
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.syncTopology()
	w.Reconcile()
	return w
}

// Params gives write access to the live parameters, changes apply from the next Update.
func (w *World) Params() *Parameters {
	return &w.Manager.Params
}

// Agents is the flock as of the last completed step. Callers must not keep it across Update.
func (w *World) Agents() []Agent {
	return w.Manager.Agents
}

// Steps counts completed calls to Update.
func (w *World) Steps() uint64 {
	return w.steps
}

// Resize follows a display surface. Agents left outside are contained at once
// with the active boundary policy, neighbor offsets assume a position inside.
func (w *World) Resize(width, height float64) {
	if width == w.Domain.Width() && height == w.Domain.Height() {
		return
	}
	w.Domain.Resize(width, height)
	w.syncTopology()
	for i := range w.Manager.Agents {
		w.Manager.Agents[i].Contain(w.Domain, w.Manager.Params.Boundary)
	}
	w.logger.Debugf("world resized to %s", w.Domain)
}

// Update advances the simulation by dt and reconciles the population.
func (w *World) Update(dt float64) {
	w.syncTopology()
	w.Manager.Step(w.Domain, dt)
	w.Reconcile()
	w.steps++
}

// syncTopology keeps neighbor distances consistent with the boundary policy:
// only a wrapping world measures across its edges.
func (w *World) syncTopology() {
	w.Domain.Periodic = w.Manager.Params.Boundary == BoundaryWrap
}

// Reconcile adds random agents or drops the newest ones until the
// population matches the target. A negative target empties the flock.
func (w *World) Reconcile() {
	target := max(w.Manager.Params.TargetPopulation, 0)
	before := w.Manager.Len()
	if before == target {
		return
	}
	for w.Manager.Len() < target {
		w.Manager.Add(RandomAgent(w.rng, w.Domain, w.Manager.Params.MaxSpeed))
	}
	for w.Manager.Len() > target {
		w.Manager.RemoveLast()
	}
	w.logger.Debugf("population reconciled %d -> %d", before, target)
}
