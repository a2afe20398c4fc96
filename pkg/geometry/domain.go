package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidDomain is returned by Validate when an extent is empty or not finite.
var ErrInvalidDomain = errors.New("invalid domain")

// Domain is the axis-aligned rectangle the flock lives in.
// When Periodic is set, opposite edges are identified (torus) and
// WrappedDelta returns the shortest displacement across them.
type Domain struct {
	XMin     float64 `json:"xMin"`
	XMax     float64 `json:"xMax"`
	YMin     float64 `json:"yMin"`
	YMax     float64 `json:"yMax"`
	Periodic bool    `json:"periodic"`
}

// NewDomain returns the rectangle [0,width]x[0,height].
func NewDomain(width, height float64, periodic bool) Domain {
	return Domain{XMin: 0, XMax: width, YMin: 0, YMax: height, Periodic: periodic}
}

// Validate checks XMax > XMin and YMax > YMin.
func (d Domain) Validate() error {
	for _, f := range []float64{d.XMin, d.XMax, d.YMin, d.YMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non finite bound in %s", ErrInvalidDomain, d)
		}
	}
	if d.XMax <= d.XMin {
		return fmt.Errorf("%w: xMax %g must be greater than xMin %g", ErrInvalidDomain, d.XMax, d.XMin)
	}
	if d.YMax <= d.YMin {
		return fmt.Errorf("%w: yMax %g must be greater than yMin %g", ErrInvalidDomain, d.YMax, d.YMin)
	}
	return nil
}

func (d Domain) String() string {
	return fmt.Sprintf("[%.1f,%.1f]x[%.1f,%.1f] periodic=%t", d.XMin, d.XMax, d.YMin, d.YMax, d.Periodic)
}

// Width of the domain.
func (d Domain) Width() float64 { return d.XMax - d.XMin }

// Height of the domain.
func (d Domain) Height() float64 { return d.YMax - d.YMin }

// Contains reports whether p lies inside the closed rectangle.
func (d Domain) Contains(p Vector2D) bool {
	return p.X >= d.XMin && p.X <= d.XMax && p.Y >= d.YMin && p.Y <= d.YMax
}

// Resize keeps the lower corner and changes the extent, used to follow a display surface.
// Non positive sizes are ignored, a minimized window reports 0x0.
func (d *Domain) Resize(width, height float64) {
	if width > 0 {
		d.XMax = d.XMin + width
	}
	if height > 0 {
		d.YMax = d.YMin + height
	}
}

// RandomPoint draws a point uniformly inside the domain.
func (d Domain) RandomPoint(rng *rand.Rand) Vector2D {
	return NewVector(
		d.XMin+rng.Float64()*d.Width(),
		d.YMin+rng.Float64()*d.Height(),
	)
}

// WrappedDelta returns the displacement going from `from` to `to`.
// On a periodic domain each component is shifted by one extent whenever
// it exceeds half of it, giving the shortest path on the torus.
// Every force computation goes through here with the (target, other) order.
func (d Domain) WrappedDelta(from, to Vector2D) Vector2D {
	delta := to.Sub(from)
	if !d.Periodic {
		return delta
	}
	delta.X = wrapComponent(delta.X, d.Width())
	delta.Y = wrapComponent(delta.Y, d.Height())
	return delta
}

func wrapComponent(c, extent float64) float64 {
	half := extent / 2
	if c > half {
		return c - extent
	}
	if c < -half {
		return c + extent
	}
	return c
}

// Wrap maps p back into the domain by whole extents, as if it re-entered through the opposite edge.
func (d Domain) Wrap(p Vector2D) Vector2D {
	return Vector2D{
		X: wrapCoordinate(p.X, d.XMin, d.Width()),
		Y: wrapCoordinate(p.Y, d.YMin, d.Height()),
	}
}

func wrapCoordinate(c, min, extent float64) float64 {
	if c >= min && c <= min+extent {
		return c
	}
	r := math.Mod(c-min, extent)
	if r < 0 {
		r += extent
	}
	return min + r
}
