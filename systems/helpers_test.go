package systems

import (
	"math"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/genetics"
)

// testConfig returns the embedded defaults with round numbers for the
// quantities tests assert on.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Physics.Gravity = 20
	cfg.Jumping.Velocity = 10
	cfg.Jumping.BaseCost = 2
	cfg.Jumping.CostScaling = 1
	cfg.Jumping.Cooldown = 1
	cfg.Creature.BaseDrain = 2
	cfg.Creature.MaxEnergy = 100
	cfg.Creature.HungerThreshold = 50
	cfg.Creature.SatisfiedThreshold = 80
	if err := cfg.Refresh(); err != nil {
		panic(err)
	}
	return cfg
}

func newCreature(energy float32) components.Creature {
	return components.Creature{
		ID:        1,
		Genome:    genetics.Neutral(),
		Energy:    energy,
		MaxEnergy: 100,
	}
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}
