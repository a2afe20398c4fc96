package flock

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestDefaultParameters_AreValid(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Fatalf("DefaultParameters().Validate() = %v", err)
	}
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Parameters)
	}{
		{"negative population", func(p *Parameters) { p.TargetPopulation = -1 }},
		{"min above max", func(p *Parameters) { p.MinSpeed = p.MaxSpeed + 1 }},
		{"zero neighbor radius", func(p *Parameters) { p.NeighborRadius = 0 }},
		{"negative separation radius", func(p *Parameters) { p.SeparationRadius = -3 }},
		{"field of view above pi", func(p *Parameters) { p.SetFieldOfView(4) }},
		{"empty wall margin", func(p *Parameters) { p.Walls = &WallAvoidance{Strength: 1} }},
		{"unknown boundary", func(p *Parameters) { p.Boundary = BoundaryPolicy(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Validate() = %v; want ErrInvalidParameters", err)
			}
		})
	}
}

func TestParameters_SetFieldOfView(t *testing.T) {
	var p Parameters
	p.SetFieldOfView(math.Pi / 3)
	if p.FieldOfView == nil || *p.FieldOfView != math.Pi/3 {
		t.Fatalf("FieldOfView = %v; want pi/3", p.FieldOfView)
	}
	p.SetFieldOfView(-1)
	if p.FieldOfView != nil {
		t.Errorf("negative angle should disable the field of view")
	}
}

func TestParameters_Clone(t *testing.T) {
	p := DefaultParameters()
	p.SetFieldOfView(1)
	p.Walls = &WallAvoidance{Margin: 5, Strength: 2}

	c := p.Clone()
	*c.FieldOfView = 2
	c.Walls.Margin = 50

	if *p.FieldOfView != 1 || p.Walls.Margin != 5 {
		t.Errorf("Clone shares optional fields with the original: %+v", p)
	}
}

func TestBoundaryPolicy_Text(t *testing.T) {
	for _, policy := range []BoundaryPolicy{BoundaryWrap, BoundaryBounce, BoundaryReflect} {
		text, err := policy.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", policy, err)
		}
		var back BoundaryPolicy
		if err := back.UnmarshalText(text); err != nil || back != policy {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, policy)
		}
	}
	if _, err := ParseBoundaryPolicy("teleport"); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("ParseBoundaryPolicy(teleport) error = %v; want ErrInvalidParameters", err)
	}
	if p, err := ParseBoundaryPolicy(" Reflect "); err != nil || p != BoundaryReflect {
		t.Errorf("ParseBoundaryPolicy is not case and space tolerant: %v, %v", p, err)
	}
}

func TestParameters_JSON(t *testing.T) {
	raw := `{"population": 12, "maxSpeed": 3, "boundary": "bounce", "fieldOfView": 1.5, "walls": {"margin": 8, "strength": 0.5}}`
	var p Parameters
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if p.TargetPopulation != 12 || p.Boundary != BoundaryBounce {
		t.Errorf("decoded %+v; want population 12 and bounce", p)
	}
	if p.FieldOfView == nil || *p.FieldOfView != 1.5 {
		t.Errorf("FieldOfView = %v; want 1.5", p.FieldOfView)
	}
	if p.Walls == nil || p.Walls.Margin != 8 {
		t.Errorf("Walls = %+v; want margin 8", p.Walls)
	}
}
