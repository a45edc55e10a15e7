// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Creature  CreatureConfig  `yaml:"creature"`
	Food      FoodConfig      `yaml:"food"`
	Genetics  GeneticsConfig  `yaml:"genetics"`
	Jumping   JumpingConfig   `yaml:"jumping"`
	Trees     TreesConfig     `yaml:"trees"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds island dimensions and initial population.
type WorldConfig struct {
	IslandRadius     float64 `yaml:"island_radius"`
	BoundaryMargin   float64 `yaml:"boundary_margin"`    // Usable radius = island_radius - boundary_margin
	InitialCreatures int     `yaml:"initial_creatures"`
	InitialTrees     int     `yaml:"initial_trees"`
	MaxFrameDelta    float64 `yaml:"max_frame_delta"`    // Wall-clock deltas above this are dropped
	TimeScale        float64 `yaml:"time_scale"`
	GridCellSize     float64 `yaml:"grid_cell_size"`     // Food index cell size
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"` // Fixed step used by headless runs
	Gravity     float64 `yaml:"gravity"`
	GroundLevel float64 `yaml:"ground_level"`
}

// CreatureConfig holds creature energy, movement and perception parameters.
// Effective traits are these base values scaled by the genome.
type CreatureConfig struct {
	MaxEnergy           float64 `yaml:"max_energy"`
	InitialEnergy       float64 `yaml:"initial_energy"`
	BodySize            float64 `yaml:"body_size"`
	BaseSpeed           float64 `yaml:"base_speed"`
	BasePerception      float64 `yaml:"base_perception"`
	BaseDrain           float64 `yaml:"base_drain"`          // Energy per second at efficiency=1, size=1
	HungerThreshold     float64 `yaml:"hunger_threshold"`    // Start seeking below this
	SatisfiedThreshold  float64 `yaml:"satisfied_threshold"` // Resume wandering above this
	EatDistance         float64 `yaml:"eat_distance"`
	SizeEatBonus        float64 `yaml:"size_eat_bonus"`
	SeekSpeedMultiplier float64 `yaml:"seek_speed_multiplier"`
	WanderInterval      float64 `yaml:"wander_interval"`
	WanderJitter        float64 `yaml:"wander_jitter"` // Fractional jitter on wander interval
}

// FoodConfig holds food parameters.
type FoodConfig struct {
	Nutrition        float64 `yaml:"nutrition"`
	Radius           float64 `yaml:"radius"`
	ExpirationMean   float64 `yaml:"expiration_mean"`
	ExpirationJitter float64 `yaml:"expiration_jitter"` // Fraction of mean
}

// GeneticsConfig holds mutation and reproduction economics.
type GeneticsConfig struct {
	MutationRate   float64 `yaml:"mutation_rate"`
	MutationAmount float64 `yaml:"mutation_amount"`

	InitialMin   float64 `yaml:"initial_min"`
	InitialMax   float64 `yaml:"initial_max"`
	TraitMin     float64 `yaml:"trait_min"`
	TraitMax     float64 `yaml:"trait_max"`
	SizeMax      float64 `yaml:"size_max"`
	JumpPowerMax float64 `yaml:"jump_power_max"`

	ReproductionThreshold float64 `yaml:"reproduction_threshold"`
	ReproductionCost      float64 `yaml:"reproduction_cost"`
	ReproductionCooldown  float64 `yaml:"reproduction_cooldown"`
	OffspringEnergy       float64 `yaml:"offspring_energy"`
	OffspringDistance     float64 `yaml:"offspring_distance"`
}

// JumpingConfig holds jump parameters.
type JumpingConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Velocity        float64 `yaml:"velocity"`
	Cooldown        float64 `yaml:"cooldown"`
	BaseCost        float64 `yaml:"base_cost"`
	CostScaling     float64 `yaml:"cost_scaling"`
	MinHeightGap    float64 `yaml:"min_height_gap"`   // Food must be at least this far above to jump
	HorizontalRange float64 `yaml:"horizontal_range"` // Food must be this close horizontally to jump
}

// TreesConfig holds tree and fruit spawning parameters.
type TreesConfig struct {
	HeightMin      float64 `yaml:"height_min"`
	HeightMax      float64 `yaml:"height_max"`
	Width          float64 `yaml:"width"`
	SpawnRadius    float64 `yaml:"spawn_radius"`
	SpawnRate      float64 `yaml:"spawn_rate"` // Fruits per minute
	MaxFood        int     `yaml:"max_food"`
	InitialFoodMin int     `yaml:"initial_food_min"`
	InitialFoodMax int     `yaml:"initial_food_max"`
	FoodHeightBias float64 `yaml:"food_height_bias"` // 0 = ground, 0.5 = uniform, 1 = canopy top
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	Boom   BoomConfig   `yaml:"boom"`
	Crash  CrashConfig  `yaml:"crash"`
	Famine FamineConfig `yaml:"famine"`
	Stable StableConfig `yaml:"stable"`
}

// BoomConfig holds population boom detection parameters.
type BoomConfig struct {
	GrowthPercent float64 `yaml:"growth_percent"`
	MinGain       int     `yaml:"min_gain"`
}

// CrashConfig holds population crash detection parameters.
type CrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// FamineConfig holds famine detection parameters.
type FamineConfig struct {
	MinPopulation int `yaml:"min_population"`
}

// StableConfig holds stable population detection parameters.
type StableConfig struct {
	MinPopulation int     `yaml:"min_population"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32 // Physics.DT as float32
	Gravity32     float32
	UsableRadius  float32 // Island radius minus boundary margin
	SpawnInterval float32 // Seconds between fruit spawns per tree
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Refresh recomputes derived values after fields were changed in code
// (tests, the optimizer, control panel sliders) and re-validates.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Gravity32 = float32(c.Physics.Gravity)
	c.Derived.UsableRadius = float32(c.World.IslandRadius - c.World.BoundaryMargin)
	c.Derived.SpawnInterval = float32(60 / c.Trees.SpawnRate)
}

// Validate rejects configurations that cannot produce a meaningful
// simulation. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.World.IslandRadius > 0 && !math.IsInf(c.World.IslandRadius, 1), "world.island_radius must be positive and finite, got %v", c.World.IslandRadius)
	check(c.World.BoundaryMargin >= 0, "world.boundary_margin must not be negative, got %v", c.World.BoundaryMargin)
	check(c.World.BoundaryMargin < c.World.IslandRadius, "world.boundary_margin (%v) must be below island_radius (%v)", c.World.BoundaryMargin, c.World.IslandRadius)
	check(c.World.InitialCreatures >= 0, "world.initial_creatures must not be negative")
	check(c.World.InitialTrees >= 0, "world.initial_trees must not be negative")
	check(c.World.MaxFrameDelta > 0, "world.max_frame_delta must be positive")
	check(c.World.TimeScale > 0, "world.time_scale must be positive")
	check(c.World.GridCellSize > 0, "world.grid_cell_size must be positive")

	check(c.Physics.DT > 0, "physics.dt must be positive")
	check(c.Physics.Gravity > 0, "physics.gravity must be positive")

	check(c.Creature.MaxEnergy > 0, "creature.max_energy must be positive")
	check(c.Creature.InitialEnergy > 0 && c.Creature.InitialEnergy <= c.Creature.MaxEnergy, "creature.initial_energy must be in (0, max_energy]")
	check(c.Creature.BodySize > 0, "creature.body_size must be positive")
	check(c.Creature.BaseSpeed >= 0, "creature.base_speed must not be negative")
	check(c.Creature.BasePerception >= 0, "creature.base_perception must not be negative")
	check(c.Creature.BaseDrain >= 0, "creature.base_drain must not be negative")
	check(c.Creature.SatisfiedThreshold > c.Creature.HungerThreshold,
		"creature.satisfied_threshold (%v) must exceed hunger_threshold (%v)", c.Creature.SatisfiedThreshold, c.Creature.HungerThreshold)
	check(c.Creature.WanderInterval > 0, "creature.wander_interval must be positive")
	check(c.Creature.WanderJitter >= 0 && c.Creature.WanderJitter < 1, "creature.wander_jitter must be in [0, 1)")

	check(c.Food.Nutrition >= 0, "food.nutrition must not be negative")
	check(c.Food.Radius > 0, "food.radius must be positive")
	check(c.Food.ExpirationMean > 0, "food.expiration_mean must be positive")
	check(c.Food.ExpirationJitter >= 0 && c.Food.ExpirationJitter < 1, "food.expiration_jitter must be in [0, 1)")

	g := c.Genetics
	check(g.MutationRate >= 0 && g.MutationRate <= 1, "genetics.mutation_rate must be in [0, 1]")
	check(g.MutationAmount >= 0, "genetics.mutation_amount must not be negative")
	check(g.TraitMin > 0 && g.TraitMin < g.TraitMax, "genetics.trait_min must be positive and below trait_max")
	check(g.SizeMax >= g.TraitMax, "genetics.size_max must be at least trait_max")
	check(g.JumpPowerMax > g.TraitMin, "genetics.jump_power_max must exceed trait_min")
	check(g.InitialMin >= g.TraitMin && g.InitialMin <= g.InitialMax && g.InitialMax <= g.TraitMax,
		"genetics initial range [%v, %v] must lie within [trait_min, trait_max]", g.InitialMin, g.InitialMax)
	check(g.ReproductionCost >= 0, "genetics.reproduction_cost must not be negative")
	check(g.ReproductionCost <= g.ReproductionThreshold,
		"genetics.reproduction_cost (%v) must not exceed reproduction_threshold (%v)", g.ReproductionCost, g.ReproductionThreshold)
	check(g.ReproductionCooldown >= 0, "genetics.reproduction_cooldown must not be negative")
	check(g.OffspringEnergy > 0 && g.OffspringEnergy <= c.Creature.MaxEnergy, "genetics.offspring_energy must be in (0, max_energy]")

	check(c.Jumping.Velocity >= 0, "jumping.velocity must not be negative")
	check(c.Jumping.Cooldown >= 0, "jumping.cooldown must not be negative")
	check(c.Jumping.BaseCost >= 0, "jumping.base_cost must not be negative")

	t := c.Trees
	check(t.HeightMin > 0 && t.HeightMin <= t.HeightMax, "trees height range [%v, %v] is invalid", t.HeightMin, t.HeightMax)
	check(t.SpawnRate > 0, "trees.spawn_rate must be positive, got %v", t.SpawnRate)
	check(t.SpawnRadius >= 0, "trees.spawn_radius must not be negative")
	check(t.MaxFood >= 0, "trees.max_food must not be negative")
	check(t.InitialFoodMin >= 0 && t.InitialFoodMin <= t.InitialFoodMax, "trees initial food range [%d, %d] is invalid", t.InitialFoodMin, t.InitialFoodMax)
	check(t.FoodHeightBias >= 0 && t.FoodHeightBias <= 1, "trees.food_height_bias must be in [0, 1], got %v", t.FoodHeightBias)

	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive")

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
