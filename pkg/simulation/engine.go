package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ErrEngineStopped is returned by every Engine call made after Stop.
var ErrEngineStopped = errors.New("flock engine stopped")

// askTimeout bounds Stats round trips.
const askTimeout = 2 * time.Second

// Engine runs a FlockActor inside its own actor system and gives
// harnesses a plain Go API on top of the messages it understands.
type Engine struct {
	System    actor.ActorSystem
	flockPID  *actor.PID
	snapshots chan *Snapshot
	stopped   atomic.Bool
}

// NewEngine starts the actor system and spawns the flock actor.
func NewEngine(ctx context.Context, cfg *Config, logger log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.DiscardLogger
	}
	system, err := actor.NewActorSystem("FlockWorld", actor.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffer to avoid blocking the actor when the UI lags
	snapshots := make(chan *Snapshot, 10)
	pid, err := system.Spawn(ctx, "flock", NewFlockActor(cfg, snapshots))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn flock actor: %w", err)
	}
	return &Engine{System: system, flockPID: pid, snapshots: snapshots}, nil
}

// Snapshots delivers a copy of the world after every step, frames are dropped when nobody reads.
func (e *Engine) Snapshots() <-chan *Snapshot {
	return e.snapshots
}

// Tick asks the actor to advance the world by dt.
func (e *Engine) Tick(ctx context.Context, dt float64) error {
	if e.stopped.Load() {
		return ErrEngineStopped
	}
	return actor.Tell(ctx, e.flockPID, wrapperspb.Double(dt))
}

// Patch sends parameter changes keyed by their JSON name, they apply before the next tick.
func (e *Engine) Patch(ctx context.Context, patch map[string]interface{}) error {
	if e.stopped.Load() {
		return ErrEngineStopped
	}
	msg, err := structpb.NewStruct(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}
	return actor.Tell(ctx, e.flockPID, msg)
}

// Stats queries the actor, the answer reflects every tick and patch sent before.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if e.stopped.Load() {
		return Stats{}, ErrEngineStopped
	}
	reply, err := actor.Ask(ctx, e.flockPID, &emptypb.Empty{}, askTimeout)
	if err != nil {
		return Stats{}, fmt.Errorf("stats request failed: %w", err)
	}
	s, ok := reply.(*structpb.Struct)
	if !ok {
		return Stats{}, fmt.Errorf("unexpected stats reply %T", reply)
	}
	return StatsFromProto(s), nil
}

// Stop shuts the actor system down, it is safe to call more than once.
func (e *Engine) Stop(ctx context.Context) error {
	if e.stopped.Swap(true) {
		return nil
	}
	return e.System.Stop(ctx)
}
