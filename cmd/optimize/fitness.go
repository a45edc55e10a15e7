package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/game"
	"github.com/pthm-cable/isle/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   uint64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Population below minViablePop for longer than extinctionGraceSec counts
// as functional extinction.
const (
	minViablePop       = 3
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64
	windowStats   []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: computeFitness(result, fe.maxTicks),
				quality: computeQuality(result.windowStats),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional
// extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	r, err := game.NewRunner(cfg, game.RunnerOptions{
		Seed: seed,
		OnWindow: func(s telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, s)
		},
	})
	if err != nil {
		// Parameters the config rejects score as an immediate extinction.
		slog.Debug("rejected parameters", "error", err)
		return result
	}
	defer r.Close()

	w := r.World()
	dt := cfg.Physics.DT
	warmupTicks := uint64(warmupSec / dt)
	var belowSec float64

	for w.Stats().Tick < fe.maxTicks {
		r.Step(dt)
		if w.Extinct() {
			result.survivalTicks = w.Stats().Tick
			return result
		}
		s := w.Stats()
		if s.Tick < warmupTicks {
			continue
		}
		if s.Population < minViablePop {
			belowSec += dt
		} else {
			belowSec = 0
		}
		if belowSec >= extinctionGraceSec {
			result.survivalTicks = s.Tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// copyConfig creates an independent copy of the base config. Config holds
// only value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalFraction × (1.0 + 0.5 × quality))
// Survival dominates; quality separates configs that all survive.
func computeFitness(r *runResult, maxTicks uint64) float64 {
	if maxTicks == 0 {
		return 0
	}
	survival := float64(r.survivalTicks) / float64(maxTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.5*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.40
	qualityWeightEnergy    = 0.30
	qualityWeightDiversity = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality computes island quality in [0, 1] from window stats:
// steady population, creatures neither starving nor saturated, and trait
// variation left in the gene pool.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	pops := make([]float64, 0, len(valid))
	var energySum, diversitySum float64
	var count int

	for _, w := range valid {
		if w.Population < minViablePop {
			continue
		}
		pops = append(pops, float64(w.Population))

		// Median energy near half of the default max energy scores best.
		energySum += math.Exp(-math.Pow((w.EnergyP50-50)/25, 2))

		// Size spread relative to the trait range.
		diversitySum += 1 - math.Exp(-w.SizeStd/0.1)
		count++
	}
	if count == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(pops) >= 2 {
		mean, std := stat.MeanStdDev(pops, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv * 4)
		}
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/float64(count) +
		qualityWeightDiversity*diversitySum/float64(count)

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
