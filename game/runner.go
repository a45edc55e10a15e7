package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/genetics"
	"github.com/pthm-cable/isle/telemetry"
)

// RunnerOptions configures the telemetry attached to a run.
type RunnerOptions struct {
	Seed        int64
	OutputDir   string // CSV output; empty disables
	ArchivePath string // SQLite archive; empty disables
	LogStats    bool   // log every window and bookmark
	Sink        Sink   // extra listener, e.g. the renderer's scene

	// OnWindow, if set, receives every flushed window.
	OnWindow func(telemetry.WindowStats)
}

// Runner drives a World and turns its events into windowed telemetry.
type Runner struct {
	world *World
	cfg   *config.Config

	runID     string
	seed      int64
	startedAt time.Time
	logStats  bool
	onWindow  func(telemetry.WindowStats)

	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	archive   *telemetry.Archive

	windows       int
	maxPopulation int
	lastWindow    telemetry.WindowStats
	closed        bool
}

// NewRunner builds a world from cfg and wires the telemetry around it.
func NewRunner(cfg *config.Config, opts RunnerOptions) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Refresh(); err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	r := &Runner{
		cfg:       cfg,
		runID:     uuid.NewString(),
		seed:      opts.Seed,
		startedAt: time.Now(),
		logStats:  opts.LogStats,
		onWindow:  opts.OnWindow,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		lifetimes: telemetry.NewLifetimeTracker(),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}
	r.output = output
	if err := r.output.WriteConfig(cfg); err != nil {
		r.output.Close()
		return nil, fmt.Errorf("runner: write config: %w", err)
	}

	if opts.ArchivePath != "" {
		archive, err := telemetry.OpenArchive(opts.ArchivePath)
		if err != nil {
			r.output.Close()
			return nil, fmt.Errorf("runner: %w", err)
		}
		r.archive = archive
		if err := r.archive.StartRun(r.runID, r.seed, r.startedAt.Unix(), cfg); err != nil {
			r.archive.Close()
			r.output.Close()
			return nil, fmt.Errorf("runner: %w", err)
		}
	}

	world, err := NewWorld(cfg,
		WithSeed(opts.Seed),
		WithPerf(r.perf),
		WithSink(MultiSink{r, opts.Sink}),
		WithTickHook(r.afterTick),
	)
	if err != nil {
		r.archive.Close()
		r.output.Close()
		return nil, err
	}
	r.world = world
	r.maxPopulation = world.Stats().Population

	slog.Info("run started",
		"run_id", r.runID,
		"seed", r.seed,
		"output_dir", r.output.Dir(),
		"archive", opts.ArchivePath,
	)
	return r, nil
}

// World returns the simulated world.
func (r *Runner) World() *World {
	return r.world
}

// RunID returns the run's unique identifier.
func (r *Runner) RunID() string {
	return r.runID
}

// Perf returns the tick phase timings.
func (r *Runner) Perf() *telemetry.PerfCollector {
	return r.perf
}

// LastWindow returns the most recently flushed telemetry window.
func (r *Runner) LastWindow() telemetry.WindowStats {
	return r.lastWindow
}

// Notify implements Sink.
func (r *Runner) Notify(ev Event) {
	if ev.Entity.Kind != KindCreature && ev.Type != EventReset {
		return
	}
	switch ev.Type {
	case EventSpawn:
		// Offspring are registered by their birth event, which names the parent.
		if ev.Generation == 0 {
			r.lifetimes.Register(ev.Entity.ID, 0, 0, ev.Tick, ev.Elapsed)
		}
	case EventBirth:
		r.collector.RecordBirth()
		r.lifetimes.Register(ev.Entity.ID, ev.Other.ID, ev.Generation, ev.Tick, ev.Elapsed)
		r.lifetimes.RecordChild(ev.Other.ID)
	case EventEat:
		r.collector.RecordEat(ev.Amount)
		r.lifetimes.RecordEat(ev.Entity.ID, ev.Amount)
	case EventDeath:
		r.collector.RecordDeath(ev.Amount)
	case EventRemove:
		if s := r.lifetimes.Remove(ev.Entity.ID, ev.Elapsed); s != nil {
			if err := r.output.WriteLifetime(s.Record(ev.Entity.ID)); err != nil {
				slog.Error("failed to write lifetime", "error", err)
			}
		}
	case EventReset:
		r.collector.Reset()
		r.bookmarks.Reset()
		r.windows = 0
		r.maxPopulation = 0
	}
}

// Step advances the world by one wall-clock delta. Telemetry windows are
// flushed from inside the tick.
func (r *Runner) Step(wallDt float64) {
	r.world.Tick(wallDt)
	r.perf.RecordFrame()
}

// afterTick runs at the end of every tick that advanced the clock. The
// window closing on extinction is flushed early.
func (r *Runner) afterTick() {
	w := r.world
	if w.stats.Population > r.maxPopulation {
		r.maxPopulation = w.stats.Population
	}
	if r.collector.ShouldFlush(w.elapsed) || w.extinct {
		r.flush()
	}
}

// RunHeadless steps the world at the configured fixed dt until maxTicks
// ticks have run (0 = unlimited), the population dies out or ctx is done.
func (r *Runner) RunHeadless(ctx context.Context, maxTicks uint64) error {
	dt := r.cfg.Physics.DT
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxTicks > 0 && r.world.tick >= maxTicks {
			slog.Info("max ticks reached", "tick", r.world.tick)
			return nil
		}
		if r.world.Extinct() {
			return nil
		}
		r.Step(dt)
	}
}

func (r *Runner) flush() {
	w := r.world
	views := w.Creatures()
	sample := telemetry.Sample{
		Population:     len(views),
		Food:           w.stats.FoodAvailable,
		Trees:          len(w.trees),
		Seeking:        w.stats.Seeking,
		MaxGeneration:  w.stats.MaxGeneration,
		ActiveLineages: r.lifetimes.ActiveLineageCount(),
		Energies:       make([]float64, 0, len(views)),
		Genomes:        make([]genetics.Genome, 0, len(views)),
	}
	for _, v := range views {
		sample.Energies = append(sample.Energies, float64(v.Energy))
		sample.Genomes = append(sample.Genomes, v.Genome)
		r.lifetimes.UpdateEnergy(v.ID, v.Energy)
	}

	stats := r.collector.Flush(w.tick, w.elapsed, sample)
	perfStats := r.perf.Stats()
	r.lastWindow = stats
	r.windows++
	if r.onWindow != nil {
		r.onWindow(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := r.archive.WriteWindow(r.runID, stats); err != nil {
		slog.Error("failed to archive window", "error", err)
	}

	for _, bm := range r.bookmarks.Check(stats) {
		if r.logStats {
			bm.LogBookmark()
		}
		if err := r.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if err := r.archive.WriteBookmark(r.runID, bm); err != nil {
			slog.Error("failed to archive bookmark", "error", err)
		}
	}
}

// Close records the run summary and closes all outputs. It is safe to
// call more than once.
func (r *Runner) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	s := r.world.Stats()
	r.maxPopulation = max(r.maxPopulation, s.Population)
	slog.Info("run finished",
		"run_id", r.runID,
		"ticks", humanize.Comma(int64(s.Tick)),
		"sim_time", fmt.Sprintf("%.1fs", s.Elapsed),
		"births", humanize.Comma(int64(s.Births)),
		"deaths", humanize.Comma(int64(s.Deaths)),
		"meals", humanize.Comma(int64(s.Eats)),
		"max_population", r.maxPopulation,
		"max_generation", humanize.Ordinal(s.MaxGeneration),
		"windows", r.windows,
		"extinct", s.Extinct,
		"started", humanize.Time(r.startedAt),
	)

	err := r.archive.FinishRun(telemetry.Run{
		ID:            r.runID,
		EndedAt:       time.Now().Unix(),
		FinalTick:     s.Tick,
		SimTimeSec:    s.Elapsed,
		Births:        s.Births,
		Deaths:        s.Deaths,
		Extinct:       s.Extinct,
		MaxPopulation: r.maxPopulation,
	})
	return errors.Join(err, r.archive.Close(), r.output.Close())
}
