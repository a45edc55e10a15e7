package systems

import "github.com/pthm-cable/isle/components"

// Eat transfers a food item's nutrition to the creature, capped at max
// energy, and consumes the item. It returns the energy gained and whether
// this call consumed the item; an already consumed or expired item grants
// nothing.
func Eat(c *components.Creature, f *components.Food) (float32, bool) {
	if !f.Consume() {
		return 0, false
	}
	before := c.Energy
	c.Energy += f.Nutrition
	if c.Energy > c.MaxEnergy {
		c.Energy = c.MaxEnergy
	}
	return c.Energy - before, true
}
