package simulation

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

// Knob is a group of parameters the harnesses scale together from one key binding.
type Knob struct {
	Name string
	Keys []string
}

// Knobs lists what the harnesses can tune, in display order.
// Speeds move as a pair so minSpeed never overtakes maxSpeed.
var Knobs = []Knob{
	{Name: "cohesion", Keys: []string{"cohesionWeight"}},
	{Name: "alignment", Keys: []string{"alignmentWeight"}},
	{Name: "separation", Keys: []string{"separationWeight"}},
	{Name: "neighbor radius", Keys: []string{"neighborRadius"}},
	{Name: "separation radius", Keys: []string{"separationRadius"}},
	{Name: "speed", Keys: []string{"minSpeed", "maxSpeed"}},
	{Name: "population", Keys: []string{"population"}},
}

// ScalePatch builds the patch multiplying the named parameters of p by factor.
// The population is rounded, doubling an empty flock asks for one agent.
func ScalePatch(p flock.Parameters, factor float64, keys ...string) (map[string]interface{}, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("scale factor %g must be positive", factor)
	}
	patch := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		switch key {
		case "cohesionWeight":
			patch[key] = p.CohesionWeight * factor
		case "alignmentWeight":
			patch[key] = p.AlignmentWeight * factor
		case "separationWeight":
			patch[key] = p.SeparationWeight * factor
		case "neighborRadius":
			patch[key] = p.NeighborRadius * factor
		case "separationRadius":
			patch[key] = p.SeparationRadius * factor
		case "minSpeed":
			patch[key] = p.MinSpeed * factor
		case "maxSpeed":
			patch[key] = p.MaxSpeed * factor
		case "population":
			n := math.Round(float64(p.TargetPopulation) * factor)
			if factor > 1 && n < 1 {
				n = 1
			}
			patch[key] = n
		default:
			return nil, fmt.Errorf("parameter %q cannot be scaled", key)
		}
	}
	return patch, nil
}

// WithPending returns p with the queued patch applied, so successive key presses
// within one frame compound instead of scaling the same last known value.
// World size keys are skipped, a patch that does not apply leaves p as is.
func WithPending(p flock.Parameters, pending map[string]interface{}) flock.Parameters {
	patch := make(map[string]interface{}, len(pending))
	for k, v := range pending {
		if k == KeyWorldWidth || k == KeyWorldHeight {
			continue
		}
		patch[k] = v
	}
	next := p.Clone()
	if err := ApplyPatch(&next, patch); err != nil {
		return p
	}
	return next
}
