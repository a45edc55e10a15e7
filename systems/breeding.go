package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/genetics"
)

// Offspring describes a creature to be spawned by the world.
type Offspring struct {
	X, Z       float32
	Genome     genetics.Genome
	Generation int
	ParentID   uint32
}

// CanReproduce reports whether the creature has enough energy and its
// reproduction cooldown has elapsed.
func CanReproduce(c *components.Creature, cfg *config.Config) bool {
	return c.Energy >= float32(cfg.Genetics.ReproductionThreshold) &&
		c.ReproTimer >= float32(cfg.Genetics.ReproductionCooldown)
}

// Reproduce pays the reproduction cost, restarts the cooldown, and returns
// the offspring to spawn at a random angle and fixed distance from the
// parent. The caller checks CanReproduce first.
func Reproduce(rng *rand.Rand, c *components.Creature, pos *components.Position, cfg *config.Config) Offspring {
	c.Energy = max(0, c.Energy-float32(cfg.Genetics.ReproductionCost))
	c.ReproTimer = 0

	angle := rng.Float64() * 2 * math.Pi
	dist := cfg.Genetics.OffspringDistance

	return Offspring{
		X:          pos.X + float32(math.Cos(angle)*dist),
		Z:          pos.Z + float32(math.Sin(angle)*dist),
		Genome:     c.Genome.Mutate(rng, cfg.Genetics),
		Generation: c.Generation + 1,
		ParentID:   c.ID,
	}
}
