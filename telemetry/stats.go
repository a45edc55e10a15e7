package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/isle/genetics"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-" db:"window_start"`
	WindowEndTick   uint64  `csv:"window_end" db:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" db:"sim_time"`

	// Counts at window end
	Population int `csv:"population" db:"population"`
	Food       int `csv:"food" db:"food"`
	Trees      int `csv:"trees" db:"trees"`
	Seeking    int `csv:"seeking" db:"seeking"`

	// Events during window
	Births    int     `csv:"births" db:"births"`
	Deaths    int     `csv:"deaths" db:"deaths"`
	Eats      int     `csv:"eats" db:"eats"`
	FoodEaten float64 `csv:"food_eaten" db:"food_eaten"` // Energy gained from eating
	Lifespan  float64 `csv:"lifespan_mean" db:"lifespan_mean"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean" db:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10" db:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50" db:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90" db:"energy_p90"`

	// Trait distribution
	SizeMean       float64 `csv:"size_mean" db:"size_mean"`
	SizeStd        float64 `csv:"size_std" db:"size_std"`
	JumpPowerMean  float64 `csv:"jump_power_mean" db:"jump_power_mean"`
	JumpPowerStd   float64 `csv:"jump_power_std" db:"jump_power_std"`
	SpeedMean      float64 `csv:"speed_mean" db:"speed_mean"`
	PerceptionMean float64 `csv:"perception_mean" db:"perception_mean"`
	EfficiencyMean float64 `csv:"efficiency_mean" db:"efficiency_mean"`

	// Mean pairwise genome distance over a bounded sample.
	GenomeDiversity float64 `csv:"genome_diversity" db:"genome_diversity"`

	// Lineage tracking
	MaxGeneration  int `csv:"max_generation" db:"max_generation"`
	ActiveLineages int `csv:"active_lineages" db:"active_lineages"`
}

// Percentile interpolates the p-th quantile (p in [0, 1], clamped) of an
// ascending slice. Empty input gives 0.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	last := len(sorted) - 1
	pos := min(max(p, 0), 1) * float64(last)
	i := int(pos)
	if i >= last {
		return sorted[last]
	}
	return sorted[i] + (sorted[i+1]-sorted[i])*(pos-float64(i))
}

// ComputeEnergyStats returns the mean and the 10th, 50th and 90th
// percentiles of an unsorted energy sample.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Sorted(slices.Values(values))
	return stat.Mean(values, nil), Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeTraitStats returns the mean and population standard deviation of
// a trait sample.
func ComputeTraitStats(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// diversitySampleSize caps the genomes compared by GenomeDiversity.
const diversitySampleSize = 64

// GenomeDiversity is the mean pairwise Distance between genomes. Large
// populations are thinned to an evenly strided sample first. Fewer than
// two genomes give 0.
func GenomeDiversity(genomes []genetics.Genome) float64 {
	if len(genomes) > diversitySampleSize {
		stride := float64(len(genomes)) / diversitySampleSize
		sample := make([]genetics.Genome, diversitySampleSize)
		for i := range sample {
			sample[i] = genomes[int(float64(i)*stride)]
		}
		genomes = sample
	}
	n := len(genomes)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += float64(genomes[i].Distance(genomes[j]))
		}
	}
	return sum / float64(n*(n-1)/2)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("food", s.Food),
		slog.Int("trees", s.Trees),
		slog.Int("seeking", s.Seeking),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("eats", s.Eats),
		slog.Float64("food_eaten", s.FoodEaten),
		slog.Float64("lifespan_mean", s.Lifespan),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("jump_power_mean", s.JumpPowerMean),
		slog.Float64("jump_power_std", s.JumpPowerStd),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("perception_mean", s.PerceptionMean),
		slog.Float64("efficiency_mean", s.EfficiencyMean),
		slog.Float64("genome_diversity", s.GenomeDiversity),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Int("active_lineages", s.ActiveLineages),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"food", s.Food,
		"births", s.Births,
		"deaths", s.Deaths,
		"eats", s.Eats,
		"lifespan_mean", s.Lifespan,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"size_mean", s.SizeMean,
		"jump_power_mean", s.JumpPowerMean,
		"genome_diversity", s.GenomeDiversity,
		"max_generation", s.MaxGeneration,
		"active_lineages", s.ActiveLineages,
	)
}
