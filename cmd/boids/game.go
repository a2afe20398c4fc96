package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/ui"
	"github.com/tochemey/goakt/v3/log"
)

// keyBinding doubles a knob on Up and halves it on Down.
type keyBinding struct {
	up, down ebiten.Key
	knob     simulation.Knob
}

var keyBindings = []keyBinding{
	{ebiten.KeyQ, ebiten.KeyA, simulation.Knobs[0]},
	{ebiten.KeyW, ebiten.KeyS, simulation.Knobs[1]},
	{ebiten.KeyE, ebiten.KeyD, simulation.Knobs[2]},
	{ebiten.KeyR, ebiten.KeyF, simulation.Knobs[3]},
	{ebiten.KeyT, ebiten.KeyG, simulation.Knobs[4]},
	{ebiten.KeyY, ebiten.KeyH, simulation.Knobs[5]},
	{ebiten.KeyU, ebiten.KeyJ, simulation.Knobs[6]},
}

// sliderBinding ties a panel slider to one parameter.
type sliderBinding struct {
	key    string
	slider *ui.Slider
	get    func(*flock.Parameters) float64
}

type Game struct {
	ctx    context.Context
	engine *simulation.Engine
	cfg    *simulation.Config
	logger log.Logger

	lastState *simulation.Snapshot
	renderer  flockRenderer
	paused    bool
	pending   map[string]interface{}

	// outside size reported by Layout, sent to the world when it changes
	width, height int
	sentW, sentH  int

	panel          *ui.UIPanel
	sliders        []sliderBinding
	widgetFOV      *ui.Checkbox
	widgetWalls    *ui.Checkbox
	widgetBoundary *ui.Button
	widgetPause    *ui.Button
	lastFOV        float64
	lastWalls      flock.WallAvoidance

	// Timing instrumentation
	lastUpdateDur time.Duration
	lastDrawDur   time.Duration
	updateAvg     float64 // Rolling average in ms
	drawAvg       float64 // Rolling average in ms
}

func NewGame(ctx context.Context, engine *simulation.Engine, cfg *simulation.Config, logger log.Logger) *Game {
	p := cfg.Parameters()
	g := &Game{
		ctx:       ctx,
		engine:    engine,
		cfg:       cfg,
		logger:    logger,
		lastState: &simulation.Snapshot{Params: p},
		pending:   make(map[string]interface{}),
		width:     int(cfg.WorldWidth),
		height:    int(cfg.WorldHeight),
		sentW:     int(cfg.WorldWidth),
		sentH:     int(cfg.WorldHeight),
		lastFOV:   2 * math.Pi / 3,
		lastWalls: flock.WallAvoidance{Margin: 40, Strength: 40},
	}
	if p.FieldOfView != nil {
		g.lastFOV = *p.FieldOfView
	}
	if p.Walls != nil {
		g.lastWalls = *p.Walls
	}

	panel := ui.NewUIPanel("Flock [Tab hides]", 10, 10, 260, cfg.WorldHeight-20)

	panel.AddSection("Steering weights")
	g.bindSlider(panel, "cohesionWeight", "Cohesion", 0.0001, 0.1, p.CohesionWeight,
		func(p *flock.Parameters) float64 { return p.CohesionWeight })
	g.bindSlider(panel, "alignmentWeight", "Alignment", 0.001, 1, p.AlignmentWeight,
		func(p *flock.Parameters) float64 { return p.AlignmentWeight })
	g.bindSlider(panel, "separationWeight", "Separation", 0.01, 10, p.SeparationWeight,
		func(p *flock.Parameters) float64 { return p.SeparationWeight })

	panel.AddSection("Perception")
	g.bindSlider(panel, "neighborRadius", "Neighbor radius", 5, 300, p.NeighborRadius,
		func(p *flock.Parameters) float64 { return p.NeighborRadius })
	g.bindSlider(panel, "separationRadius", "Separation radius", 1, 100, p.SeparationRadius,
		func(p *flock.Parameters) float64 { return p.SeparationRadius })
	g.widgetFOV = panel.AddCheckbox("Field of view", p.FieldOfView != nil, g.toggleFOV)
	g.bindSlider(panel, "fieldOfView", "Half angle (rad)", 0.1, math.Pi, g.lastFOV,
		func(p *flock.Parameters) float64 {
			if p.FieldOfView == nil {
				return g.lastFOV
			}
			return *p.FieldOfView
		})

	panel.AddSection("Motion")
	g.bindSlider(panel, "maxSpeed", "Max speed", 0.5, 20, p.MaxSpeed,
		func(p *flock.Parameters) float64 { return p.MaxSpeed })
	g.bindSlider(panel, "minSpeed", "Min speed", 0, 20, p.MinSpeed,
		func(p *flock.Parameters) float64 { return p.MinSpeed })
	g.bindSlider(panel, "population", "Population", 0, 3000, float64(p.TargetPopulation),
		func(p *flock.Parameters) float64 { return float64(p.TargetPopulation) })
	g.sliders[len(g.sliders)-1].slider.Format = "%.0f"

	panel.AddSection("Boundary")
	g.widgetWalls = panel.AddCheckbox("Wall avoidance", p.Walls != nil, g.toggleWalls)
	g.widgetBoundary = panel.AddButton("Boundary: "+p.Boundary.String(), g.cycleBoundary)
	g.widgetPause = panel.AddButton("Pause [Space]", g.togglePause)
	panel.EndSection()

	g.panel = panel
	return g
}

func (g *Game) bindSlider(panel *ui.UIPanel, key, label string, min, max, value float64, get func(*flock.Parameters) float64) {
	g.sliders = append(g.sliders, sliderBinding{
		key:    key,
		slider: panel.AddSlider(label, min, max, value),
		get:    get,
	})
}

func (g *Game) toggleFOV(on bool) {
	if on {
		g.pending["fieldOfView"] = g.lastFOV
	} else {
		g.pending["fieldOfView"] = nil
	}
}

func (g *Game) toggleWalls(on bool) {
	if on {
		g.pending["walls"] = map[string]interface{}{"margin": g.lastWalls.Margin, "strength": g.lastWalls.Strength}
	} else {
		g.pending["walls"] = nil
	}
}

func (g *Game) cycleBoundary() {
	next := (g.lastState.Params.Boundary + 1) % (flock.BoundaryReflect + 1)
	g.pending["boundary"] = next.String()
	g.widgetBoundary.Label = "Boundary: " + next.String()
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.widgetPause.Label = "Resume [Space]"
	} else {
		g.widgetPause.Label = "Pause [Space]"
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDur = time.Since(start)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDur.Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Hidden = !g.panel.Hidden
	}

	// 1. Retrieve Latest State (Non-blocking), older frames are skipped
	for drained := false; !drained; {
		select {
		case snap := <-g.engine.Snapshots():
			g.lastState = snap
		default:
			drained = true
		}
	}
	g.followParams(&g.lastState.Params)

	// 2. Collect tuning from the panel and the keyboard
	g.panel.Update()
	for _, b := range g.sliders {
		if b.slider.Changed() {
			g.sliderPatch(b)
		}
	}
	g.keyPatches()

	if g.width != g.sentW || g.height != g.sentH {
		g.pending[simulation.KeyWorldWidth] = float64(g.width)
		g.pending[simulation.KeyWorldHeight] = float64(g.height)
		g.sentW, g.sentH = g.width, g.height
	}

	// 3. Send the patch, the actor applies it before the tick below
	if len(g.pending) > 0 {
		if err := g.engine.Patch(g.ctx, g.pending); err != nil {
			return fmt.Errorf("patch failed: %w", err)
		}
		g.pending = make(map[string]interface{})
	}

	if !g.paused {
		if err := g.engine.Tick(g.ctx, g.cfg.TimeStep); err != nil {
			return fmt.Errorf("tick failed: %w", err)
		}
	}
	return nil
}

func (g *Game) sliderPatch(b sliderBinding) {
	v := b.slider.Value
	switch b.key {
	case "population":
		g.pending[b.key] = math.Round(v)
	case "fieldOfView":
		g.lastFOV = v
		if g.widgetFOV.Value {
			g.pending[b.key] = v
		}
	case "minSpeed":
		g.pending[b.key] = math.Min(v, g.lastState.Params.MaxSpeed)
	case "maxSpeed":
		g.pending[b.key] = math.Max(v, g.lastState.Params.MinSpeed)
	default:
		g.pending[b.key] = v
	}
}

func (g *Game) keyPatches() {
	for _, kb := range keyBindings {
		factor := 0.0
		switch {
		case inpututil.IsKeyJustPressed(kb.up):
			factor = 2
		case inpututil.IsKeyJustPressed(kb.down):
			factor = 0.5
		default:
			continue
		}
		current := simulation.WithPending(g.lastState.Params, g.pending)
		patch, err := simulation.ScalePatch(current, factor, kb.knob.Keys...)
		if err != nil {
			g.logger.Warnf("cannot scale %s: %v", kb.knob.Name, err)
			continue
		}
		for k, v := range patch {
			g.pending[k] = v
		}
		g.logger.Debugf("%s x%g", kb.knob.Name, factor)
	}
}

// followParams keeps the widgets in sync with parameters changed by key bindings.
func (g *Game) followParams(p *flock.Parameters) {
	for _, b := range g.sliders {
		b.slider.Set(b.get(p))
	}
	g.widgetFOV.Value = p.FieldOfView != nil
	g.widgetWalls.Value = p.Walls != nil
	if p.Walls != nil {
		g.lastWalls = *p.Walls
	}
	if _, pending := g.pending["boundary"]; !pending {
		g.widgetBoundary.Label = "Boundary: " + p.Boundary.String()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDur = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDur.Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)
	g.renderer.draw(screen, g.lastState)
	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\n\n%s",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.statsText())
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-220, 10)
}

func (g *Game) statsText() string {
	s := g.lastState.Stats
	return fmt.Sprintf("Step:   %d\nAgents: %d\nSpeed:  %.2f\nOrder:  %.2f",
		s.Steps, s.Population, s.MeanSpeed, s.Polarization)
}

// Layout follows the window, the world is resized to match on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
		g.panel.Height = float64(outsideHeight) - 20
	}
	return g.width, g.height
}
