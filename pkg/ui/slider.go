package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float value by dragging across a horizontal bar.
// With Log set the bar is logarithmic, which suits the tiny flocking weights.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	Log      bool
	Format   string // fmt verb for the value, "%.3g" when empty

	dragging bool
	changed  bool
}

// NewSlider creates a slider, Log is switched on when the range spans more than two decades.
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     10,
		Log:   min > 0 && max/min > 100,
	}
	s.Set(value)
	return s
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragging = false
		return
	}
	over := float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
		float64(my) >= s.Y && float64(my) <= s.Y+s.H
	if over {
		s.dragging = true
	}
	if !s.dragging {
		return
	}
	v := s.valueAt((float64(mx) - s.X) / s.W)
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Set moves the slider without reporting a change, used to follow values tuned elsewhere.
// It is ignored while the user drags the slider.
func (s *Slider) Set(v float64) {
	if s.dragging {
		return
	}
	s.Value = math.Max(s.Min, math.Min(s.Max, v))
}

// Changed reports whether the user moved the slider since the last call.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

func (s *Slider) valueAt(ratio float64) float64 {
	ratio = math.Max(0, math.Min(1, ratio))
	if s.Log {
		return s.Min * math.Pow(s.Max/s.Min, ratio)
	}
	return s.Min + ratio*(s.Max-s.Min)
}

func (s *Slider) ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	if s.Log {
		return math.Log(s.Value/s.Min) / math.Log(s.Max/s.Min)
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Text is the label followed by the current value.
func (s *Slider) Text() string {
	format := s.Format
	if format == "" {
		format = "%.3g"
	}
	return s.Label + ": " + fmt.Sprintf(format, s.Value)
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Value Bar
	fill := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	if s.dragging {
		fill = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.ratio()), float32(s.H), fill, true)
}
