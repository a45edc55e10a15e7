// Package genetics provides the heritable trait bundle carried by creatures.
package genetics

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/isle/config"
)

// Genome is a value-type bundle of heritable multipliers.
// A creature's genome is never modified after spawn; offspring get a new
// value from Mutate.
type Genome struct {
	Speed      float32 `yaml:"speed"`      // Movement speed multiplier
	Perception float32 `yaml:"perception"` // Perception radius multiplier
	Efficiency float32 `yaml:"efficiency"` // Divides energy drain
	Size       float32 `yaml:"size"`       // Body size multiplier
	Hue        float32 `yaml:"hue"`        // Display hue in [0, 1)
	JumpPower  float32 `yaml:"jump_power"` // Jump velocity multiplier
}

// Neutral returns a genome with every multiplier at 1 and hue 0.
func Neutral() Genome {
	return Genome{Speed: 1, Perception: 1, Efficiency: 1, Size: 1, JumpPower: 1}
}

// NewRandom draws a generation-zero genome. Multiplicative traits are
// uniform over the initial range, which is narrower than the clamp range.
func NewRandom(rng *rand.Rand, cfg config.GeneticsConfig) Genome {
	draw := func() float32 {
		return float32(cfg.InitialMin + rng.Float64()*(cfg.InitialMax-cfg.InitialMin))
	}
	return Genome{
		Speed:      draw(),
		Perception: draw(),
		Efficiency: draw(),
		Size:       draw(),
		Hue:        wrapHue(float32(rng.Float64())),
		JumpPower:  draw(),
	}
}

// Mutate returns a new genome derived from g. Each trait independently rolls
// the mutation rate and, on success, is perturbed by a uniform amount in
// [-amount/2, +amount/2]. The receiver is not modified.
func (g Genome) Mutate(rng *rand.Rand, cfg config.GeneticsConfig) Genome {
	perturb := func(v float32) float32 {
		if rng.Float64() >= cfg.MutationRate {
			return v
		}
		return v + float32((rng.Float64()-0.5)*cfg.MutationAmount)
	}

	child := Genome{
		Speed:      perturb(g.Speed),
		Perception: perturb(g.Perception),
		Efficiency: perturb(g.Efficiency),
		Size:       perturb(g.Size),
		Hue:        perturb(g.Hue),
		JumpPower:  perturb(g.JumpPower),
	}
	return child.Clamp(cfg)
}

// Clamp forces every trait into its valid range and wraps hue into [0, 1).
func (g Genome) Clamp(cfg config.GeneticsConfig) Genome {
	lo, hi := float32(cfg.TraitMin), float32(cfg.TraitMax)
	g.Speed = clamp(g.Speed, lo, hi)
	g.Perception = clamp(g.Perception, lo, hi)
	g.Efficiency = clamp(g.Efficiency, lo, hi)
	g.Size = clamp(g.Size, lo, float32(cfg.SizeMax))
	g.JumpPower = clamp(g.JumpPower, lo, float32(cfg.JumpPowerMax))
	g.Hue = wrapHue(g.Hue)
	return g
}

// Distance is the sum of absolute trait differences, with hue measured
// around the color wheel.
func (g Genome) Distance(other Genome) float32 {
	d := abs(g.Speed-other.Speed) +
		abs(g.Perception-other.Perception) +
		abs(g.Efficiency-other.Efficiency) +
		abs(g.Size-other.Size) +
		abs(g.JumpPower-other.JumpPower)
	return d + HueDistance(g.Hue, other.Hue)
}

// HueDistance is the circular distance between two hues, in [0, 0.5].
func HueDistance(a, b float32) float32 {
	d := abs(a - b)
	if d > 0.5 {
		d = 1 - d
	}
	return d
}

func wrapHue(h float32) float32 {
	h -= float32(math.Floor(float64(h)))
	if h >= 1 {
		h = 0
	}
	return h
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
