package main

import (
	"github.com/pthm-cable/isle/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Order must match ApplyToConfig and ExtractFromConfig.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "tree_spawn_rate", Path: "trees.spawn_rate", Min: 1.0, Max: 20.0, Default: 6.0},
			{Name: "nutrition", Path: "food.nutrition", Min: 5.0, Max: 60.0, Default: 25.0},
			{Name: "base_drain", Path: "creature.base_drain", Min: 0.3, Max: 4.0, Default: 1.5},
			{Name: "repro_threshold", Path: "genetics.reproduction_threshold", Min: 55.0, Max: 100.0, Default: 85.0},
			{Name: "repro_cost", Path: "genetics.reproduction_cost", Min: 10.0, Max: 70.0, Default: 40.0},
			{Name: "hunger_threshold", Path: "creature.hunger_threshold", Min: 20.0, Max: 75.0, Default: 50.0},
			{Name: "food_expiration", Path: "food.expiration_mean", Min: 15.0, Max: 180.0, Default: 60.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. Values that
// would break a config invariant are nudged back into range: the
// reproduction cost is capped at the threshold and satisfied is kept above
// hungry. The caller still runs Refresh.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Trees.SpawnRate = clamped[0]
	cfg.Food.Nutrition = clamped[1]
	cfg.Creature.BaseDrain = clamped[2]
	cfg.Genetics.ReproductionThreshold = min(clamped[3], cfg.Creature.MaxEnergy)
	cfg.Genetics.ReproductionCost = min(clamped[4], cfg.Genetics.ReproductionThreshold)
	cfg.Creature.HungerThreshold = clamped[5]
	cfg.Food.ExpirationMean = clamped[6]

	// Satisfied must stay above hungry.
	if cfg.Creature.SatisfiedThreshold <= cfg.Creature.HungerThreshold {
		cfg.Creature.SatisfiedThreshold = min(cfg.Creature.HungerThreshold+10, cfg.Creature.MaxEnergy)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Trees.SpawnRate,
		cfg.Food.Nutrition,
		cfg.Creature.BaseDrain,
		cfg.Genetics.ReproductionThreshold,
		cfg.Genetics.ReproductionCost,
		cfg.Creature.HungerThreshold,
		cfg.Food.ExpirationMean,
	}
}

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Quality         float64 `csv:"quality"`
	TreeSpawnRate   float64 `csv:"tree_spawn_rate"`
	Nutrition       float64 `csv:"nutrition"`
	BaseDrain       float64 `csv:"base_drain"`
	ReproThreshold  float64 `csv:"repro_threshold"`
	ReproCost       float64 `csv:"repro_cost"`
	HungerThreshold float64 `csv:"hunger_threshold"`
	FoodExpiration  float64 `csv:"food_expiration"`
}

// NewEvalRecord builds a log row from clamped parameter values.
func NewEvalRecord(eval int, fitness, quality float64, v []float64) EvalRecord {
	return EvalRecord{
		Eval:            eval,
		Fitness:         fitness,
		Quality:         quality,
		TreeSpawnRate:   v[0],
		Nutrition:       v[1],
		BaseDrain:       v[2],
		ReproThreshold:  v[3],
		ReproCost:       v[4],
		HungerThreshold: v[5],
		FoodExpiration:  v[6],
	}
}
