package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/game"
	"github.com/pthm-cable/isle/renderer"
	"github.com/pthm-cable/isle/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output telemetry windows and bookmarks via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	archivePath := flag.String("archive", "", "SQLite database to archive the run in")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	timeScale := flag.Float64("time-scale", 0, "Simulation speed multiplier (0 = use config)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	logFormat := flag.String("log-format", "", "Log format: text or json (default json headless, text otherwise)")

	flag.Parse()

	// Set up slog
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	format := *logFormat
	if format == "" {
		format = "text"
		if *headless {
			format = "json"
		}
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *timeScale > 0 {
		cfg.World.TimeScale = *timeScale
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.RunnerOptions{
		Seed:        rngSeed,
		OutputDir:   *outputDir,
		ArchivePath: *archivePath,
		LogStats:    *logStats,
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"config", *configPath,
		"headless", *headless,
		"max_ticks", *maxTicks,
	)

	if *headless {
		r, err := game.NewRunner(cfg, opts)
		if err != nil {
			slog.Error("failed to start run", "error", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := r.RunHeadless(ctx, *maxTicks); err != nil {
			slog.Warn("run interrupted", "error", err)
		}
		if err := r.Close(); err != nil {
			slog.Error("failed to close run", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	scene := renderer.NewScene()
	opts.Sink = scene
	r, err := game.NewRunner(cfg, opts)
	if err != nil {
		slog.Error("failed to start run", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := r.Close(); err != nil {
			slog.Error("failed to close run", "error", err)
		}
	}()

	viewer.New(r, scene).Run(*maxTicks)
}
