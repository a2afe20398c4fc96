package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

var (
	configFile = flag.String("config", "", "JSON or TOML configuration file (defaults when empty)")
	schemaFile = flag.String("schema", "", "JSON schema for the configuration (embedded one when empty)")
	logFile    = flag.String("logfile", "", "Write logs to this file, the terminal belongs to the flock")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	fps        = flag.Int("fps", 30, "Frames per second")
)

func main() {
	flag.Parse()

	logger := log.DiscardLogger
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		level := log.InfoLevel
		if *debug {
			level = log.DebugLevel
		}
		logger = log.New(level, f)
	}

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile, *schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	t := newTerminal(screen, cfg, logger)
	defer screen.Fini()

	if *fps <= 0 {
		*fps = 30
	}
	t.run(time.Second / time.Duration(*fps))
}
