package simulation

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name             string
		agents           []flock.Agent
		wantSpeed        float64
		wantPolarization float64
	}{
		{"empty flock", nil, 0, 0},
		{
			"aligned",
			[]flock.Agent{
				flock.NewAgent(geometry.Zero, geometry.NewVector(2, 0)),
				flock.NewAgent(geometry.Zero, geometry.NewVector(4, 0)),
			},
			3, 1,
		},
		{
			"opposed",
			[]flock.Agent{
				flock.NewAgent(geometry.Zero, geometry.NewVector(0, 3)),
				flock.NewAgent(geometry.Zero, geometry.NewVector(0, -3)),
			},
			3, 0,
		},
		{
			"perpendicular",
			[]flock.Agent{
				flock.NewAgent(geometry.Zero, geometry.NewVector(1, 0)),
				flock.NewAgent(geometry.Zero, geometry.NewVector(0, 1)),
			},
			1, math.Sqrt2 / 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(9, tt.agents)
			if got.Steps != 9 || got.Population != len(tt.agents) {
				t.Errorf("ComputeStats() = %+v", got)
			}
			if math.Abs(got.MeanSpeed-tt.wantSpeed) > 1e-9 {
				t.Errorf("MeanSpeed = %v; want %v", got.MeanSpeed, tt.wantSpeed)
			}
			if math.Abs(got.Polarization-tt.wantPolarization) > 1e-9 {
				t.Errorf("Polarization = %v; want %v", got.Polarization, tt.wantPolarization)
			}
		})
	}
}

func TestStats_ProtoRoundTrip(t *testing.T) {
	want := Stats{Steps: 1234, Population: 300, MeanSpeed: 3.25, Polarization: 0.5}
	p, err := want.ToProto()
	if err != nil {
		t.Fatalf("ToProto() error = %v", err)
	}
	if got := StatsFromProto(p); got != want {
		t.Errorf("StatsFromProto(ToProto()) = %+v; want %+v", got, want)
	}
}

func TestNewSnapshot_IsACopy(t *testing.T) {
	p := flock.DefaultParameters()
	p.TargetPopulation = 4
	p.SetFieldOfView(1)
	w := flock.NewWorld(geometry.NewDomain(100, 100, true), p, flock.WithSeed(1))

	snap := NewSnapshot(w)
	if len(snap.Agents) != 4 || snap.Stats.Population != 4 {
		t.Fatalf("snapshot has %d agents, stats %d; want 4", len(snap.Agents), snap.Stats.Population)
	}
	before := snap.Agents[0]

	w.Update(1)
	*w.Params().FieldOfView = 3

	if snap.Agents[0] != before {
		t.Error("stepping the world changed an existing snapshot")
	}
	if *snap.Params.FieldOfView != 1 {
		t.Error("snapshot shares its field of view with the live parameters")
	}
	if snap.Step != 0 {
		t.Errorf("Step = %d; want 0", snap.Step)
	}
}
