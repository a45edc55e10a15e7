package components

import "github.com/mlange-42/ark/ecs"

// Food is a consumable energy source, either resting on the ground or
// hanging from a tree.
type Food struct {
	ID        uint32
	Nutrition float32
	Radius    float32

	Consumed bool
	Expired  bool

	Age          float32
	ExpiresAfter float32

	OnTree bool
	Tree   ecs.Entity // Weak reference to the spawning tree, only valid when OnTree
}

// Consume marks the food as eaten. It reports whether this call did the
// consuming, so a second caller in the same tick gets false.
func (f *Food) Consume() bool {
	if f.Consumed || f.Expired {
		return false
	}
	f.Consumed = true
	return true
}

// Available reports whether the food can still be eaten.
func (f *Food) Available() bool {
	return !f.Consumed && !f.Expired
}

// Tree periodically grows fruit within its canopy.
type Tree struct {
	ID          uint32
	Height      float32
	Width       float32
	SpawnRadius float32

	SpawnInterval float32 // Seconds between spawn attempts
	Timer         float32 // Seconds accumulated toward the next attempt

	MaxFood     int
	Outstanding []ecs.Entity // Fruit this tree has spawned that may still be live
}
