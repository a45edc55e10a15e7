package telemetry

import "github.com/pthm-cable/isle/genetics"

// Collector accumulates events within time windows and produces WindowStats.
// Windows are measured in simulation seconds because the tick length
// follows the wall clock and the time scale.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick uint64
	windowStartSec  float64

	// Event counters for current window
	births    int
	deaths    int
	eats      int
	foodEaten float64
	lifespans []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a death event and the creature's age at death.
func (c *Collector) RecordDeath(age float32) {
	c.deaths++
	c.lifespans = append(c.lifespans, float64(age))
}

// RecordEat records a creature eating and the energy it gained.
func (c *Collector) RecordEat(gained float32) {
	c.eats++
	c.foodEaten += float64(gained)
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush(elapsed float64) bool {
	return elapsed-c.windowStartSec >= c.windowDurationSec
}

// Sample is the world state the caller samples at window end.
type Sample struct {
	Population     int
	Food           int
	Trees          int
	Seeking        int
	MaxGeneration  int
	ActiveLineages int

	Energies []float64
	Genomes  []genetics.Genome
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, elapsed float64, s Sample) WindowStats {
	energyMean, p10, p50, p90 := ComputeEnergyStats(s.Energies)

	n := len(s.Genomes)
	sizes := make([]float64, 0, n)
	jumps := make([]float64, 0, n)
	speeds := make([]float64, 0, n)
	perceptions := make([]float64, 0, n)
	efficiencies := make([]float64, 0, n)
	for _, g := range s.Genomes {
		sizes = append(sizes, float64(g.Size))
		jumps = append(jumps, float64(g.JumpPower))
		speeds = append(speeds, float64(g.Speed))
		perceptions = append(perceptions, float64(g.Perception))
		efficiencies = append(efficiencies, float64(g.Efficiency))
	}
	sizeMean, sizeStd := ComputeTraitStats(sizes)
	jumpMean, jumpStd := ComputeTraitStats(jumps)
	speedMean, _ := ComputeTraitStats(speeds)
	perceptionMean, _ := ComputeTraitStats(perceptions)
	efficiencyMean, _ := ComputeTraitStats(efficiencies)
	lifespan, _ := ComputeTraitStats(c.lifespans)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      elapsed,

		Population: s.Population,
		Food:       s.Food,
		Trees:      s.Trees,
		Seeking:    s.Seeking,

		Births:    c.births,
		Deaths:    c.deaths,
		Eats:      c.eats,
		FoodEaten: c.foodEaten,
		Lifespan:  lifespan,

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		SizeMean:       sizeMean,
		SizeStd:        sizeStd,
		JumpPowerMean:  jumpMean,
		JumpPowerStd:   jumpStd,
		SpeedMean:      speedMean,
		PerceptionMean: perceptionMean,
		EfficiencyMean: efficiencyMean,

		GenomeDiversity: GenomeDiversity(s.Genomes),

		MaxGeneration:  s.MaxGeneration,
		ActiveLineages: s.ActiveLineages,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartSec = elapsed
	c.births = 0
	c.deaths = 0
	c.eats = 0
	c.foodEaten = 0
	c.lifespans = c.lifespans[:0]

	return stats
}

// Reset discards the current window and starts a new one at time zero,
// matching a world reset.
func (c *Collector) Reset() {
	*c = Collector{windowDurationSec: c.windowDurationSec, lifespans: c.lifespans[:0]}
}

// WindowDurationSec returns the window length in simulation seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
