package simulation

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

func TestScalePatch(t *testing.T) {
	p := flock.DefaultParameters()
	tests := []struct {
		name   string
		factor float64
		keys   []string
		want   map[string]interface{}
	}{
		{"double cohesion", 2, []string{"cohesionWeight"}, map[string]interface{}{"cohesionWeight": 0.01}},
		{"halve speeds", 0.5, []string{"minSpeed", "maxSpeed"}, map[string]interface{}{"minSpeed": 1.0, "maxSpeed": 2.0}},
		{"halve population", 0.5, []string{"population"}, map[string]interface{}{"population": 150.0}},
		{"nothing", 2, nil, map[string]interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScalePatch(p, tt.factor, tt.keys...)
			if err != nil {
				t.Fatalf("ScalePatch() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ScalePatch() = %v; want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("patch[%q] = %v; want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestScalePatch_PopulationFromZero(t *testing.T) {
	p := flock.DefaultParameters()
	p.TargetPopulation = 0
	got, err := ScalePatch(p, 2, "population")
	if err != nil {
		t.Fatal(err)
	}
	if got["population"] != 1.0 {
		t.Errorf("doubling an empty flock gave %v; want 1", got["population"])
	}
}

func TestScalePatch_Errors(t *testing.T) {
	p := flock.DefaultParameters()
	if _, err := ScalePatch(p, 2, "vertices"); err == nil {
		t.Error("scaling vertices succeeded; want an error")
	}
	if _, err := ScalePatch(p, 0, "maxSpeed"); err == nil {
		t.Error("zero factor accepted")
	}
}

func TestKnobs_AreScalableAndApply(t *testing.T) {
	for _, k := range Knobs {
		p := flock.DefaultParameters()
		for _, factor := range []float64{2, 0.5} {
			patch, err := ScalePatch(p, factor, k.Keys...)
			if err != nil {
				t.Fatalf("knob %q: %v", k.Name, err)
			}
			if err := ApplyPatch(&p, patch); err != nil {
				t.Errorf("knob %q x%g: patch rejected: %v", k.Name, factor, err)
			}
		}
	}
}

func TestScalePatch_CompoundsWithPending(t *testing.T) {
	p := flock.DefaultParameters()
	pending := map[string]interface{}{KeyWorldWidth: 640.0}
	for i := 0; i < 2; i++ {
		patch, err := ScalePatch(WithPending(p, pending), 2, "cohesionWeight", "population")
		if err != nil {
			t.Fatal(err)
		}
		for k, v := range patch {
			pending[k] = v
		}
	}
	if got := pending["cohesionWeight"]; got != 0.02 {
		t.Errorf("cohesionWeight after two doublings = %v; want 0.02", got)
	}
	if got := pending["population"]; got != 1200.0 {
		t.Errorf("population after two doublings = %v; want 1200", got)
	}
	if p.CohesionWeight != 0.005 {
		t.Errorf("WithPending modified its input: CohesionWeight = %v", p.CohesionWeight)
	}
}

func TestWithPending_InvalidPatchKeepsParameters(t *testing.T) {
	p := flock.DefaultParameters()
	got := WithPending(p, map[string]interface{}{"minSpeed": 50.0})
	if got.MinSpeed != p.MinSpeed {
		t.Errorf("MinSpeed = %v; want %v from a rejected pending patch", got.MinSpeed, p.MinSpeed)
	}
}
