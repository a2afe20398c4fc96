package simulation

import (
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FlockActor owns the authoritative flock.World.
// Its mailbox serialises ticks and parameter patches, so a step never
// observes a half applied change even when the UI runs on another goroutine.
//
// Messages:
//   - *wrapperspb.DoubleValue: advance the world by that dt, then publish a Snapshot
//   - *structpb.Struct: parameter patch keyed by JSON name (see ApplyPatch),
//     worldWidth / worldHeight resize the domain
//   - *emptypb.Empty: replies with the current Stats as *structpb.Struct
type FlockActor struct {
	cfg        *Config
	world      *flock.World
	snapshotCh chan<- *Snapshot

	// --- Benchmark Stats ---
	stepCount   int
	patchCount  int
	lastLogTime time.Time
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor creates the actor, the world itself is built in PreStart.
// snapshotCh may be nil when nobody renders.
func NewFlockActor(cfg *Config, snapshotCh chan<- *Snapshot) *FlockActor {
	return &FlockActor{
		cfg:         cfg,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (f *FlockActor) PreStart(ctx *actor.Context) error {
	logger := ctx.ActorSystem().Logger()
	f.world = f.cfg.NewWorld(flock.WithLogger(logger))
	logger.Infof("Flock world %s spawned with %d agents", f.world.Domain, len(f.world.Agents()))
	return nil
}

func (f *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("Flock actor started")
		f.pushSnapshot()

	// 1. The Main Simulation Step (Driven by the harness)
	case *wrapperspb.DoubleValue:
		f.world.Update(msg.GetValue())
		f.stepCount++
		f.logBenchmarks(ctx)
		f.pushSnapshot()

	// 2. Dynamic tuning from the UI
	case *structpb.Struct:
		f.patchCount++
		f.applyPatch(ctx, msg.AsMap())

	// 3. Stats query (Ask)
	case *emptypb.Empty:
		reply, err := ComputeStats(f.world.Steps(), f.world.Agents()).ToProto()
		if err != nil {
			ctx.Logger().Errorf("failed to encode stats: %v", err)
			return
		}
		ctx.Response(reply)

	default:
		ctx.Unhandled()
	}
}

func (f *FlockActor) applyPatch(ctx *actor.ReceiveContext, patch map[string]interface{}) {
	width, height := splitWorldSize(patch)
	// a rejected patch leaves the world untouched, size included
	if err := ApplyPatch(f.world.Params(), patch); err != nil {
		ctx.Logger().Warnf("ignoring patch %v: %v", patch, err)
		return
	}
	if width > 0 || height > 0 {
		w, h := f.world.Domain.Width(), f.world.Domain.Height()
		if width > 0 {
			w = width
		}
		if height > 0 {
			h = height
		}
		f.world.Resize(w, h)
	}
	ctx.Logger().Debugf("patch applied: %v", patch)
}

func (f *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(f.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 STEP RATE: %d/sec (patches: %d) | %s",
			f.stepCount, f.patchCount, ComputeStats(f.world.Steps(), f.world.Agents()))
		f.stepCount = 0
		f.patchCount = 0
		f.lastLogTime = time.Now()
	}
}

func (f *FlockActor) pushSnapshot() {
	if f.snapshotCh == nil {
		return
	}
	select {
	case f.snapshotCh <- NewSnapshot(f.world):
	default:
		// UI busy, skip frame
	}
}

func (f *FlockActor) PostStop(ctx *actor.Context) error {
	if f.world != nil {
		ctx.ActorSystem().Logger().Infof("Flock world stopped after %d steps", f.world.Steps())
	}
	return nil
}
