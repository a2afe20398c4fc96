package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

// Patch keys handled outside flock.Parameters.
const (
	KeyWorldWidth  = "worldWidth"
	KeyWorldHeight = "worldHeight"
)

// ApplyPatch overlays the values of patch, keyed by their JSON name, onto p.
// Unknown keys and values that fail Parameters.Validate are rejected, p is left untouched on error.
// A null "fieldOfView" or "walls" switches the feature off.
func ApplyPatch(p *flock.Parameters, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}
	next := p.Clone()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return fmt.Errorf("invalid parameter patch: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// splitWorldSize removes the world size keys from patch and returns them, 0 when absent.
func splitWorldSize(patch map[string]interface{}) (width, height float64) {
	if v, ok := patch[KeyWorldWidth].(float64); ok {
		width = v
	}
	if v, ok := patch[KeyWorldHeight].(float64); ok {
		height = v
	}
	delete(patch, KeyWorldWidth)
	delete(patch, KeyWorldHeight)
	return width, height
}
