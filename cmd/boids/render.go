package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
)

var (
	backgroundColor = color.RGBA{R: 51, G: 51, B: 77, A: 255}

	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	// tip, then the base vertices, fading across the body
	vertexColors = [][3]float32{
		{1, 0, 0.7},
		{0.7, 1, 0},
		{0, 0.7, 1},
	}
)

// baseRatio is the distance of the base vertices from the centre, relative to the tip.
const baseRatio = 0.57

// maxBatchVertices keeps every index inside uint16.
const maxBatchVertices = 60000

func init() {
	whiteImage.Fill(color.White)
}

// flockRenderer batches every agent polygon into as few DrawTriangles calls as possible.
type flockRenderer struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func (r *flockRenderer) draw(screen *ebiten.Image, snap *simulation.Snapshot) {
	n := snap.Params.Vertices
	if n < 3 {
		n = 3
	}
	scale := snap.Params.AgentScale
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	for _, a := range snap.Agents {
		if len(r.vertices)+n > maxBatchVertices {
			r.flush(screen)
		}
		heading := a.Velocity.Angle()
		base := uint16(len(r.vertices))
		for k := 0; k < n; k++ {
			radius := scale
			if k > 0 {
				radius *= baseRatio
			}
			angle := heading + 2*math.Pi*float64(k)/float64(n)
			p := geometry.NewVectorPolar(radius, angle).Add(a.Position)
			c := vertexColors[k%len(vertexColors)]
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   float32(p.X),
				DstY:   float32(p.Y),
				SrcX:   1,
				SrcY:   1,
				ColorR: c[0],
				ColorG: c[1],
				ColorB: c[2],
				ColorA: 1,
			})
		}
		// fan around the tip
		for k := 1; k < n-1; k++ {
			r.indices = append(r.indices, base, base+uint16(k), base+uint16(k+1))
		}
	}
	r.flush(screen)
}

func (r *flockRenderer) flush(screen *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(r.vertices, r.indices, whiteSubImage, op)
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}
