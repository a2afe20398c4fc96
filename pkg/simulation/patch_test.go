package simulation

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

func TestApplyPatch(t *testing.T) {
	p := flock.DefaultParameters()
	err := ApplyPatch(&p, map[string]interface{}{
		"population":     float64(500),
		"cohesionWeight": 0.02,
		"boundary":       "reflect",
		"fieldOfView":    1.2,
		"walls":          map[string]interface{}{"margin": 20.0, "strength": 4.0},
	})
	if err != nil {
		t.Fatalf("ApplyPatch() error = %v", err)
	}
	if p.TargetPopulation != 500 || p.CohesionWeight != 0.02 || p.Boundary != flock.BoundaryReflect {
		t.Errorf("patched parameters = %+v", p)
	}
	if p.FieldOfView == nil || *p.FieldOfView != 1.2 {
		t.Errorf("FieldOfView = %v; want 1.2", p.FieldOfView)
	}
	if p.Walls == nil || p.Walls.Margin != 20 {
		t.Errorf("Walls = %+v; want margin 20", p.Walls)
	}
	if p.MaxSpeed != flock.DefaultParameters().MaxSpeed {
		t.Errorf("MaxSpeed = %v; want untouched", p.MaxSpeed)
	}

	// null switches the optional features off
	if err := ApplyPatch(&p, map[string]interface{}{"fieldOfView": nil, "walls": nil}); err != nil {
		t.Fatalf("ApplyPatch(null) error = %v", err)
	}
	if p.FieldOfView != nil || p.Walls != nil {
		t.Errorf("optional features still on: fov=%v walls=%v", p.FieldOfView, p.Walls)
	}
}

func TestApplyPatch_RejectsAndKeepsState(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{"unknown key", map[string]interface{}{"gravity": 9.81}},
		{"wrong type", map[string]interface{}{"maxSpeed": "fast"}},
		{"bad boundary", map[string]interface{}{"cohesionWeight": 7.0, "boundary": "teleport"}},
		{"min speed above max speed", map[string]interface{}{"cohesionWeight": 7.0, "minSpeed": 9.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := flock.DefaultParameters()
			if err := ApplyPatch(&p, tt.patch); err == nil {
				t.Fatal("ApplyPatch() succeeded; want an error")
			}
			if p.CohesionWeight != flock.DefaultParameters().CohesionWeight {
				t.Errorf("failed patch modified the parameters: %+v", p)
			}
		})
	}
}

func TestSplitWorldSize(t *testing.T) {
	patch := map[string]interface{}{KeyWorldWidth: 800.0, "population": 3.0}
	w, h := splitWorldSize(patch)
	if w != 800 || h != 0 {
		t.Errorf("splitWorldSize() = %v, %v; want 800, 0", w, h)
	}
	if _, ok := patch[KeyWorldWidth]; ok {
		t.Error("world size key left in the patch")
	}
	if len(patch) != 1 {
		t.Errorf("patch = %v; want only population left", patch)
	}
}
