package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFile = flag.String("config", "", "JSON or TOML configuration file (defaults when empty)")
	schemaFile = flag.String("schema", "", "JSON schema for the configuration (embedded one when empty)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

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

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids flocking simulation")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := NewGame(ctx, engine, cfg, logger)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error(err)
		_ = engine.Stop(ctx)
		os.Exit(1)
	}
}
