package systems

import (
	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
)

// Metabolize advances a creature's clocks and burns energy for dt seconds.
// It reports false when the creature starved; the creature is then marked
// dead with energy clamped to zero and must not act this tick.
func Metabolize(c *components.Creature, cfg *config.Config, dt float32) bool {
	c.Age += dt
	c.ReproTimer += dt

	c.Energy -= DrainRate(c.Genome, cfg) * dt

	if c.JumpCooldown > 0 {
		c.JumpCooldown -= dt
		if c.JumpCooldown < 0 {
			c.JumpCooldown = 0
		}
	}

	if c.Energy <= 0 {
		c.Energy = 0
		c.Dead = true
		return false
	}
	return true
}

// UpdateState applies the hunger hysteresis. A creature starts seeking food
// strictly below the hunger threshold and resumes wandering strictly above
// the satisfied threshold.
func UpdateState(c *components.Creature, cfg *config.Config) {
	switch c.State {
	case components.StateWandering:
		if c.Energy < float32(cfg.Creature.HungerThreshold) {
			c.State = components.StateSeekingFood
		}
	case components.StateSeekingFood:
		if c.Energy > float32(cfg.Creature.SatisfiedThreshold) {
			c.State = components.StateWandering
		}
	}
}
