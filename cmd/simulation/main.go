package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFile = flag.String("config", "", "JSON or TOML configuration file (defaults when empty)")
	schemaFile = flag.String("schema", "", "JSON schema for the configuration (embedded one when empty)")
	steps      = flag.Int("steps", 1000, "Number of steps to run")
	every      = flag.Int("every", 100, "Log flock statistics every N steps (0 = only at the end)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

// Headless runner: drives the flock actor without a window and logs statistics.
func main() {
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stderr)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile, *schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	engine, err := simulation.NewEngine(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start simulation: %v\n", err)
		os.Exit(1)
	}
	defer engine.Stop(ctx)

	start := time.Now()
	for i := 1; i <= *steps; i++ {
		if err := engine.Tick(ctx, cfg.TimeStep); err != nil {
			logger.Errorf("tick %d failed: %v", i, err)
			return
		}
		if *every > 0 && i%*every == 0 {
			report(ctx, engine, logger)
		}
	}
	report(ctx, engine, logger)
	logger.Infof("%d steps in %s", *steps, time.Since(start).Round(time.Millisecond))
}

// report waits for every queued tick, Stats is answered after them.
func report(ctx context.Context, engine *simulation.Engine, logger log.Logger) {
	st, err := engine.Stats(ctx)
	if err != nil {
		logger.Warnf("stats unavailable: %v", err)
		return
	}
	logger.Info(st.String())
}
