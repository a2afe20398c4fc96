package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

// A terminal cell stands for this many world units, about the aspect of a glyph.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// headings from east, clockwise in screen coordinates
var arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

type terminal struct {
	screen        tcell.Screen
	world         *flock.World
	cfg           *simulation.Config
	logger        log.Logger
	width, height int

	paused   bool
	selected int // index into simulation.Knobs
	message  string
}

func newTerminal(screen tcell.Screen, cfg *simulation.Config, logger log.Logger) *terminal {
	t := &terminal{
		screen: screen,
		cfg:    cfg,
		logger: logger,
		world:  cfg.NewWorld(flock.WithLogger(logger)),
	}
	t.handleResize()
	return t
}

// handleResize fits the world to the terminal, the last row holds the status line.
func (t *terminal) handleResize() {
	w, h := t.screen.Size()
	if w == t.width && h == t.height {
		return
	}
	t.width, t.height = w, h
	rows := h - 1
	if w < 1 || rows < 1 {
		return
	}
	t.world.Resize(float64(w)*cellWidth, float64(rows)*cellHeight)
	t.logger.Debugf("terminal resized to %dx%d, world %s", w, h, t.world.Domain)
}

func (t *terminal) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handleInput(ev) {
				t.logger.Infof("terminal harness stopped after %d steps", t.world.Steps())
				return
			}
		case <-ticker.C:
			if !t.paused {
				t.world.Update(t.cfg.TimeStep)
			}
			t.draw()
		}
	}
}

// handleInput returns false when the user quits.
func (t *terminal) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			t.scale(2)
		case tcell.KeyDown:
			t.scale(0.5)
		case tcell.KeyLeft:
			t.selected = (t.selected + len(simulation.Knobs) - 1) % len(simulation.Knobs)
		case tcell.KeyRight:
			t.selected = (t.selected + 1) % len(simulation.Knobs)
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		t.handleResize()
		t.screen.Sync()
	}
	return true
}

func (t *terminal) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return false
	case r == ' ':
		t.paused = !t.paused
	case r == '+':
		t.scale(2)
	case r == '-':
		t.scale(0.5)
	case r == 'b':
		p := t.world.Params()
		p.Boundary = (p.Boundary + 1) % (flock.BoundaryReflect + 1)
		t.message = "boundary " + p.Boundary.String()
	case r == 'v':
		p := t.world.Params()
		if p.FieldOfView == nil {
			p.SetFieldOfView(2 * math.Pi / 3)
		} else {
			p.SetFieldOfView(-1)
		}
		t.message = fmt.Sprintf("field of view %s", fovText(p))
	case r >= '1' && r < '1'+rune(len(simulation.Knobs)):
		t.selected = int(r - '1')
	}
	return true
}

// scale multiplies the selected knob, the change applies from the next step.
func (t *terminal) scale(factor float64) {
	knob := simulation.Knobs[t.selected]
	patch, err := simulation.ScalePatch(*t.world.Params(), factor, knob.Keys...)
	if err == nil {
		err = simulation.ApplyPatch(t.world.Params(), patch)
	}
	if err != nil {
		t.message = err.Error()
		t.logger.Warnf("cannot scale %s: %v", knob.Name, err)
		return
	}
	t.message = fmt.Sprintf("%s x%g", knob.Name, factor)
}

func fovText(p *flock.Parameters) string {
	if p.FieldOfView == nil {
		return "off"
	}
	return fmt.Sprintf("%.2f rad", *p.FieldOfView)
}

func (t *terminal) draw() {
	t.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for _, a := range t.world.Agents() {
		x := int((a.Position.X - t.world.Domain.XMin) / cellWidth)
		y := int((a.Position.Y - t.world.Domain.YMin) / cellHeight)
		if x < 0 || x >= t.width || y < 0 || y >= t.height-1 {
			continue
		}
		t.screen.SetContent(x, y, arrowFor(a.Heading()), nil, style)
	}
	t.drawStatus()
	t.screen.Show()
}

func arrowFor(heading float64) rune {
	sector := int(math.Round(heading/(math.Pi/4))) % len(arrows)
	if sector < 0 {
		sector += len(arrows)
	}
	return arrows[sector]
}

func (t *terminal) drawStatus() {
	st := simulation.ComputeStats(t.world.Steps(), t.world.Agents())
	knob := simulation.Knobs[t.selected]
	line := fmt.Sprintf(" %s | [%d] %s | fov %s | %s",
		st, t.selected+1, knob.Name, fovText(t.world.Params()), t.message)
	if t.paused {
		line = " PAUSED" + line
	}
	style := tcell.StyleDefault.Reverse(true)
	y := t.height - 1
	col := 0
	for _, r := range line {
		if col >= t.width {
			break
		}
		t.screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < t.width; col++ {
		t.screen.SetContent(col, y, ' ', nil, style)
	}
}
