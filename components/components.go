// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/isle/genetics"
)

// BehaviorState is the creature's current behavior.
type BehaviorState uint8

const (
	StateWandering   BehaviorState = iota // Default, random walk
	StateSeekingFood                      // Hungry, heading for nearest food
)

// Position represents an entity's world position. Y is height above ground.
type Position struct {
	X, Y, Z float32
}

// Velocity represents an entity's velocity.
type Velocity struct {
	X, Y, Z float32
}

// Body holds the physics policy shared by creatures and food.
// Trees carry no Body and are never integrated.
type Body struct {
	GroundHeight float32 // Resting height of the entity's center
	Gravity      bool    // False for tree-attached food
	Grounded     bool
}

// Creature holds creature-specific data.
type Creature struct {
	ID         uint32
	Generation int
	Genome     genetics.Genome

	Energy    float32
	MaxEnergy float32
	Age       float32
	State     BehaviorState

	ReproTimer   float32 // Seconds since last reproduction (or birth)
	JumpCooldown float32 // Seconds until the next jump is allowed
	Dead         bool
}

// EnergyFraction returns energy as a fraction of capacity.
func (c *Creature) EnergyFraction() float32 {
	if c.MaxEnergy <= 0 {
		return 0
	}
	return c.Energy / c.MaxEnergy
}

// Brain holds the wander state of the behavior controller.
type Brain struct {
	DirX, DirZ float32 // Current wander direction (unit vector)
	Interval   float32 // Seconds between direction changes, fixed per creature
	Elapsed    float32 // Seconds since the last direction change
}
