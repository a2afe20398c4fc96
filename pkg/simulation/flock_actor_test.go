package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/log"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.WorldWidth = 200
	cfg.WorldHeight = 100
	cfg.Seed = 11
	cfg.Flock.TargetPopulation = 20
	return cfg
}

func startEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e, err := NewEngine(ctx, testConfig(), log.DiscardLogger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Stop(ctx) })
	return e
}

// nextSnapshot waits for a frame matching keep.
func nextSnapshot(t *testing.T, e *Engine, keep func(*Snapshot) bool) *Snapshot {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-e.Snapshots():
			if keep(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for a snapshot")
			return nil
		}
	}
}

func TestEngine_InitialSnapshot(t *testing.T) {
	e := startEngine(t)
	s := nextSnapshot(t, e, func(*Snapshot) bool { return true })
	if s.Step != 0 || len(s.Agents) != 20 {
		t.Errorf("first snapshot: step %d, %d agents; want step 0, 20 agents", s.Step, len(s.Agents))
	}
	if s.Domain.Width() != 200 || s.Domain.Height() != 100 {
		t.Errorf("first snapshot domain = %s", s.Domain)
	}
}

func TestEngine_TickAndStats(t *testing.T) {
	e := startEngine(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := e.Tick(ctx, 1); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	// Ask is queued behind the ticks
	st, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Steps != 5 || st.Population != 20 {
		t.Errorf("Stats() = %+v; want 5 steps and 20 agents", st)
	}
	if st.MeanSpeed > testConfig().Flock.MaxSpeed+1e-9 {
		t.Errorf("MeanSpeed %v above maxSpeed", st.MeanSpeed)
	}
	nextSnapshot(t, e, func(s *Snapshot) bool { return s.Step >= 1 })
}

func TestEngine_PatchAppliesBeforeNextTick(t *testing.T) {
	e := startEngine(t)
	ctx := context.Background()
	err := e.Patch(ctx, map[string]interface{}{
		"population":  float64(35),
		"boundary":    "bounce",
		KeyWorldWidth: 400.0,
	})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if err := e.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	s := nextSnapshot(t, e, func(s *Snapshot) bool { return s.Step == 1 })
	if len(s.Agents) != 35 {
		t.Errorf("population after patch = %d; want 35", len(s.Agents))
	}
	if s.Params.Boundary != flock.BoundaryBounce || s.Domain.Periodic {
		t.Errorf("boundary = %v periodic = %v; want bounce on a plane", s.Params.Boundary, s.Domain.Periodic)
	}
	if s.Domain.Width() != 400 || s.Domain.Height() != 100 {
		t.Errorf("domain after resize = %s; want 400x100", s.Domain)
	}
	for i, a := range s.Agents {
		if !s.Domain.Contains(a.Position) {
			t.Fatalf("agent %d at %s escaped the bounced domain", i, a.Position)
		}
	}
}

func TestEngine_BadPatchIsIgnored(t *testing.T) {
	e := startEngine(t)
	ctx := context.Background()
	if err := e.Patch(ctx, map[string]interface{}{"gravity": 9.81}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if err := e.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	st, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Steps != 1 || st.Population != 20 {
		t.Errorf("Stats() = %+v; the actor should survive a rejected patch", st)
	}
}

func TestEngine_RejectedPatchKeepsWorldSize(t *testing.T) {
	e := startEngine(t)
	ctx := context.Background()
	err := e.Patch(ctx, map[string]interface{}{
		KeyWorldWidth: 400.0,
		"gravity":     9.81,
	})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if err := e.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	s := nextSnapshot(t, e, func(s *Snapshot) bool { return s.Step == 1 })
	if s.Domain.Width() != 200 || s.Domain.Height() != 100 {
		t.Errorf("domain after rejected patch = %s; want 200x100", s.Domain)
	}
}

func TestEngine_Stop(t *testing.T) {
	e := startEngine(t)
	ctx := context.Background()
	if err := e.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := e.Stop(ctx); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
	if err := e.Tick(ctx, 1); !errors.Is(err, ErrEngineStopped) {
		t.Errorf("Tick() after Stop = %v; want ErrEngineStopped", err)
	}
	if err := e.Patch(ctx, map[string]interface{}{"population": 1.0}); !errors.Is(err, ErrEngineStopped) {
		t.Errorf("Patch() after Stop = %v; want ErrEngineStopped", err)
	}
	if _, err := e.Stats(ctx); !errors.Is(err, ErrEngineStopped) {
		t.Errorf("Stats() after Stop = %v; want ErrEngineStopped", err)
	}
}
