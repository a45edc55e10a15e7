package systems

import (
	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
)

// Jump launches a grounded creature. It is refused, with no side effects,
// while airborne, cooling down, or when energy is below the jump cost.
// Energy exactly equal to the cost is enough.
func Jump(c *components.Creature, vel *components.Velocity, body *components.Body, cfg *config.Config) bool {
	if !body.Grounded || c.JumpCooldown > 0 {
		return false
	}
	cost := JumpCost(c.Genome, cfg)
	if c.Energy < cost {
		return false
	}

	vel.Y = JumpVelocity(c.Genome, cfg)
	c.Energy -= cost
	c.JumpCooldown = float32(cfg.Jumping.Cooldown)
	body.Grounded = false
	return true
}

// CanReach reports whether a jump could lift the creature by gap.
func CanReach(c *components.Creature, gap float32, cfg *config.Config) bool {
	return MaxJumpHeight(c.Genome, cfg) >= gap
}
