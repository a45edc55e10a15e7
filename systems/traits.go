package systems

import (
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/genetics"
)

// Derived traits are pure functions of the genome and configuration.
// Nothing here is cached on the creature.

// EffectiveSpeed returns the wander speed.
func EffectiveSpeed(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Creature.BaseSpeed) * g.Speed
}

// PerceptionRadius returns the horizontal distance within which food is visible.
func PerceptionRadius(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Creature.BasePerception) * g.Perception
}

// DrainRate returns energy spent per second. Larger and less efficient
// creatures drain faster.
func DrainRate(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Creature.BaseDrain) / g.Efficiency * g.Size
}

// BodySize returns the creature's diameter.
func BodySize(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Creature.BodySize) * g.Size
}

// EatRadius returns the 3D distance within which the creature can eat.
func EatRadius(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Creature.EatDistance + cfg.Creature.SizeEatBonus*float64(g.Size))
}

// JumpVelocity returns the launch speed of a jump.
func JumpVelocity(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Jumping.Velocity) * g.JumpPower
}

// MaxJumpHeight returns the apex height of a jump above the launch point.
func MaxJumpHeight(g genetics.Genome, cfg *config.Config) float32 {
	v := float64(JumpVelocity(g, cfg))
	return float32(v * v / (2 * cfg.Physics.Gravity))
}

// JumpCost returns the energy a jump costs. Bigger and stronger jumpers pay more.
func JumpCost(g genetics.Genome, cfg *config.Config) float32 {
	return float32(cfg.Jumping.BaseCost*cfg.Jumping.CostScaling) * g.JumpPower * g.Size
}
