package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"google.golang.org/protobuf/types/known/structpb"
)

// AgentState is what a renderer needs to draw one agent.
type AgentState struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Snapshot is an immutable copy of the world taken between two steps,
// safe to hand to another goroutine.
type Snapshot struct {
	Step   uint64
	Domain geometry.Domain
	Params flock.Parameters
	Agents []AgentState
	Stats  Stats
}

// Stats summarises the flock.
type Stats struct {
	Steps      uint64
	Population int
	MeanSpeed  float64
	// Polarization is |mean heading|: 1 when every agent flies the same way, near 0 for a swarm.
	Polarization float64
}

func (s Stats) String() string {
	return fmt.Sprintf("step %d | agents %d | mean speed %.2f | polarization %.2f",
		s.Steps, s.Population, s.MeanSpeed, s.Polarization)
}

// ComputeStats measures the agents of a flock.
func ComputeStats(steps uint64, agents []flock.Agent) Stats {
	st := Stats{Steps: steps, Population: len(agents)}
	if len(agents) == 0 {
		return st
	}
	var headings geometry.Vector2D
	speeds := 0.0
	for i := range agents {
		speeds += agents[i].Speed()
		headings = headings.Add(agents[i].Velocity.Normalize())
	}
	n := float64(len(agents))
	st.MeanSpeed = speeds / n
	st.Polarization = headings.Len() / n
	return st
}

// NewSnapshot copies the current state of w.
func NewSnapshot(w *flock.World) *Snapshot {
	agents := w.Agents()
	snap := &Snapshot{
		Step:   w.Steps(),
		Domain: w.Domain,
		Params: w.Manager.Params.Clone(),
		Agents: make([]AgentState, len(agents)),
		Stats:  ComputeStats(w.Steps(), agents),
	}
	for i, a := range agents {
		snap.Agents[i] = AgentState{Position: a.Position, Velocity: a.Velocity}
	}
	return snap
}

// ToProto converts the stats into the protobuf envelope used as actor reply.
func (s Stats) ToProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"steps":        float64(s.Steps),
		"population":   float64(s.Population),
		"meanSpeed":    s.MeanSpeed,
		"polarization": s.Polarization,
	})
}

// StatsFromProto reads back a reply built by ToProto.
func StatsFromProto(p *structpb.Struct) Stats {
	f := p.GetFields()
	return Stats{
		Steps:        uint64(f["steps"].GetNumberValue()),
		Population:   int(f["population"].GetNumberValue()),
		MeanSpeed:    f["meanSpeed"].GetNumberValue(),
		Polarization: f["polarization"].GetNumberValue(),
	}
}
