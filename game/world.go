// Package game owns the island world: the entity registry, the simulation
// clock and the fixed-order tick.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/systems"
	"github.com/pthm-cable/isle/telemetry"
)

// Errors returned by Reset.
var (
	ErrInvalidRadius = errors.New("island radius must exceed the boundary margin")
	ErrInvalidCount  = errors.New("entity count must not be negative")
)

// Option configures a World at construction.
type Option func(*options)

type options struct {
	rng  *rand.Rand
	sink Sink
	perf *telemetry.PerfCollector
	hook func()
}

// WithRand routes every stochastic decision through rng.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithSink installs the event sink. Use MultiSink for several listeners.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithPerf times every tick phase into p.
func WithPerf(p *telemetry.PerfCollector) Option {
	return func(o *options) { o.perf = p }
}

// WithTickHook calls fn at the end of every tick that advanced the clock,
// after statistics are refreshed. fn may read the world but must not
// mutate it.
func WithTickHook(fn func()) Option {
	return func(o *options) { o.hook = fn }
}

// World holds the complete simulation state for one island.
// It is not safe for concurrent use; callers mutate it between ticks only.
type World struct {
	cfg  *config.Config
	ecs  *ecs.World
	rng  *rand.Rand
	sink Sink
	perf *telemetry.PerfCollector
	hook func()

	// Entity mappers, one per entity kind
	creatureMap *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Creature,
		components.Brain,
	]
	foodMap *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Food,
	]
	treeMap *ecs.Map2[components.Position, components.Tree]

	// Single-component lookups
	foodOne *ecs.Map1[components.Food]
	critOne *ecs.Map1[components.Creature]

	// Live entities in spawn order
	creatures []ecs.Entity
	food      []ecs.Entity
	trees     []ecs.Entity

	foodIndex *systems.FoodIndex
	behavior  *systems.BehaviorSystem
	flora     *systems.FloraSystem

	islandRadius float32
	usableRadius float32

	// Clock
	elapsed   float64
	tick      uint64
	timeScale float64

	paused         bool
	extinct        bool
	showStateIcons bool

	births, deaths, eats int

	nextCreatureID uint32
	nextFoodID     uint32
	nextTreeID     uint32

	stats   Stats
	scratch statsScratch
}

// NewWorld validates cfg, recomputes its derived values and builds an
// island populated with the configured initial trees and creatures.
func NewWorld(cfg *config.Config, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Refresh(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(1))
	}
	if o.sink == nil {
		o.sink = NopSink{}
	}

	world := ecs.NewWorld()
	w := &World{
		cfg:  cfg,
		ecs:  world,
		rng:  o.rng,
		sink: o.sink,
		perf: o.perf,
		hook: o.hook,
		creatureMap: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Creature,
			components.Brain,
		](world),
		foodMap: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Food,
		](world),
		treeMap:   ecs.NewMap2[components.Position, components.Tree](world),
		foodOne:   ecs.NewMap1[components.Food](world),
		critOne:   ecs.NewMap1[components.Creature](world),
		behavior:  systems.NewBehaviorSystem(cfg, o.rng),
		flora:     systems.NewFloraSystem(cfg, o.rng),
		timeScale: cfg.World.TimeScale,
	}

	if err := w.Reset(cfg.World.InitialCreatures, cfg.World.InitialTrees, float32(cfg.World.IslandRadius)); err != nil {
		return nil, fmt.Errorf("game: initial population: %w", err)
	}
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() *config.Config {
	return w.cfg
}

// IslandRadius returns the island radius set by the last Reset.
func (w *World) IslandRadius() float32 {
	return w.islandRadius
}

// UsableRadius returns the radius entities are confined to.
func (w *World) UsableRadius() float32 {
	return w.usableRadius
}

// SetTimeScale sets the multiplier applied to wall-clock deltas.
// Non-positive values are ignored.
func (w *World) SetTimeScale(m float64) {
	if !(m > 0) {
		return
	}
	w.timeScale = m
}

// TimeScale returns the current time-scale multiplier.
func (w *World) TimeScale() float64 {
	return w.timeScale
}

// TogglePause flips the pause flag and returns the new value.
func (w *World) TogglePause() bool {
	w.paused = !w.paused
	return w.paused
}

// SetPaused sets the pause flag.
func (w *World) SetPaused(p bool) {
	w.paused = p
}

// Paused reports whether ticking is paused.
func (w *World) Paused() bool {
	return w.paused
}

// Extinct reports whether the world halted because every creature died.
func (w *World) Extinct() bool {
	return w.extinct
}

// SetShowStateIcons toggles the cosmetic behavior-state icons. The flag is
// stored for the renderer and has no effect on the simulation.
func (w *World) SetShowStateIcons(show bool) {
	w.showStateIcons = show
}

// ShowStateIcons reports whether behavior-state icons should be drawn.
func (w *World) ShowStateIcons() bool {
	return w.showStateIcons
}

func (w *World) notify(ev Event) {
	ev.Tick = w.tick
	ev.Elapsed = w.elapsed
	w.sink.Notify(ev)
}
