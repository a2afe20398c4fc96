package flock

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidParameters is wrapped by Parameters.Validate.
var ErrInvalidParameters = errors.New("invalid flock parameters")

// BoundaryPolicy selects what happens to an agent leaving the domain.
type BoundaryPolicy int

const (
	// BoundaryWrap re-enters the agent through the opposite edge, velocity untouched.
	BoundaryWrap BoundaryPolicy = iota
	// BoundaryBounce clamps the agent onto the edge and turns the crossing velocity component inward.
	BoundaryBounce
	// BoundaryReflect is BoundaryBounce with the agent nudged BoundaryEpsilon inside the edge.
	BoundaryReflect
)

// BoundaryEpsilon is how far inside the edge BoundaryReflect puts an agent.
const BoundaryEpsilon = 1e-3

var boundaryNames = map[BoundaryPolicy]string{
	BoundaryWrap:    "wrap",
	BoundaryBounce:  "bounce",
	BoundaryReflect: "reflect",
}

func (b BoundaryPolicy) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(b))
}

// ParseBoundaryPolicy maps "wrap", "bounce" or "reflect" to a BoundaryPolicy.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	for policy, name := range boundaryNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return policy, nil
		}
	}
	return BoundaryWrap, fmt.Errorf("%w: unknown boundary policy %q", ErrInvalidParameters, s)
}

// MarshalText implements encoding.TextMarshaler so configs can carry the policy by name.
func (b BoundaryPolicy) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BoundaryPolicy) UnmarshalText(text []byte) error {
	p, err := ParseBoundaryPolicy(string(text))
	if err != nil {
		return err
	}
	*b = p
	return nil
}

// WallAvoidance pushes agents away from the domain edges.
// Within Margin of an edge an agent receives Strength/d² pointing inward.
type WallAvoidance struct {
	Margin   float64 `json:"margin"`
	Strength float64 `json:"strength"`
}

// Parameters controls the physics constants of the flock.
// The Manager reads them once per step, harnesses may change any field between steps.
type Parameters struct {
	Vertices         int     `json:"vertices"`   // rendered polygon, ignored by the physics
	TargetPopulation int     `json:"population"` // reconciled at the end of every step
	MaxSpeed         float64 `json:"maxSpeed"`
	MinSpeed         float64 `json:"minSpeed"`
	AgentScale       float64 `json:"agentScale"` // rendered size, ignored by the physics

	NeighborRadius   float64 `json:"neighborRadius"`   // cohesion and alignment reach
	SeparationRadius float64 `json:"separationRadius"` // personal space

	CohesionWeight   float64 `json:"cohesionWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	SeparationWeight float64 `json:"separationWeight"`

	// FieldOfView is the half angle of the vision cone in radians, nil means 360°.
	FieldOfView *float64       `json:"fieldOfView,omitempty"`
	Walls       *WallAvoidance `json:"walls,omitempty"`

	Boundary BoundaryPolicy `json:"boundary"`
}

// DefaultParameters returns a flock that holds together on a 1000x800 world at dt = 1.
func DefaultParameters() Parameters {
	return Parameters{
		Vertices:         3,
		TargetPopulation: 300,
		MaxSpeed:         4.0,
		MinSpeed:         2.0,
		AgentScale:       6.0,
		NeighborRadius:   70.0,
		SeparationRadius: 20.0,
		CohesionWeight:   0.005,
		AlignmentWeight:  0.05,
		SeparationWeight: 1.0,
		Boundary:         BoundaryWrap,
	}
}

// SetFieldOfView enables the vision cone, a negative angle disables it.
func (p *Parameters) SetFieldOfView(angle float64) {
	if angle < 0 {
		p.FieldOfView = nil
		return
	}
	p.FieldOfView = &angle
}

// Validate reports the invariants the physics relies on.
// The Manager never calls it: a misconfigured flock moves strangely but does not fail.
func (p Parameters) Validate() error {
	var errs []error
	if p.TargetPopulation < 0 {
		errs = append(errs, fmt.Errorf("population %d is negative", p.TargetPopulation))
	}
	if p.MinSpeed < 0 {
		errs = append(errs, fmt.Errorf("minSpeed %g is negative", p.MinSpeed))
	}
	if p.MinSpeed > p.MaxSpeed {
		errs = append(errs, fmt.Errorf("minSpeed %g is greater than maxSpeed %g", p.MinSpeed, p.MaxSpeed))
	}
	if p.NeighborRadius <= 0 {
		errs = append(errs, fmt.Errorf("neighborRadius %g must be positive", p.NeighborRadius))
	}
	if p.SeparationRadius <= 0 {
		errs = append(errs, fmt.Errorf("separationRadius %g must be positive", p.SeparationRadius))
	}
	if p.FieldOfView != nil && (*p.FieldOfView < 0 || *p.FieldOfView > math.Pi) {
		errs = append(errs, fmt.Errorf("fieldOfView %g is outside [0, pi]", *p.FieldOfView))
	}
	if p.Walls != nil && p.Walls.Margin <= 0 {
		errs = append(errs, fmt.Errorf("walls.margin %g must be positive", p.Walls.Margin))
	}
	if _, ok := boundaryNames[p.Boundary]; !ok {
		errs = append(errs, fmt.Errorf("unknown boundary policy %d", int(p.Boundary)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy, the optional fields are not shared.
func (p Parameters) Clone() Parameters {
	c := p
	if p.FieldOfView != nil {
		fov := *p.FieldOfView
		c.FieldOfView = &fov
	}
	if p.Walls != nil {
		w := *p.Walls
		c.Walls = &w
	}
	return c
}
