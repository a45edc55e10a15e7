package game

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/genetics"
	"github.com/pthm-cable/isle/systems"
)

// Reset tears down every entity and rebuilds the island with the given
// radius, trees (each seeded with a few fruit) and creatures. The clock
// and counters go back to zero and the world is left running. On error
// the world is unchanged.
func (w *World) Reset(creatureCount, treeCount int, islandRadius float32) error {
	if creatureCount < 0 || treeCount < 0 {
		return fmt.Errorf("reset with %d creatures, %d trees: %w", creatureCount, treeCount, ErrInvalidCount)
	}
	margin := float32(w.cfg.World.BoundaryMargin)
	if !(islandRadius > margin) || math.IsInf(float64(islandRadius), 1) {
		return fmt.Errorf("reset with radius %v (margin %v): %w", islandRadius, margin, ErrInvalidRadius)
	}

	w.clear()

	w.islandRadius = islandRadius
	w.usableRadius = islandRadius - margin
	w.foodIndex = systems.NewFoodIndex(w.ecs, islandRadius, float32(w.cfg.World.GridCellSize))

	w.elapsed = 0
	w.tick = 0
	w.births, w.deaths, w.eats = 0, 0, 0
	w.paused = false
	w.extinct = false

	for i := 0; i < treeCount; i++ {
		x, z := w.randomPoint()
		w.SpawnTree(x, z)
	}
	for i := 0; i < creatureCount; i++ {
		x, z := w.randomPoint()
		w.SpawnCreature(x, z)
	}

	w.refreshStats()
	w.notify(Event{Type: EventReset, Amount: islandRadius})
	slog.Info("world reset",
		"creatures", creatureCount,
		"trees", treeCount,
		"island_radius", islandRadius,
		"food", len(w.food),
	)
	return nil
}

// clear removes every entity, raising a remove event for each.
func (w *World) clear() {
	for i := len(w.creatures) - 1; i >= 0; i-- {
		w.removeCreature(i)
	}
	for i := len(w.food) - 1; i >= 0; i-- {
		w.removeFood(i)
	}
	for i := len(w.trees) - 1; i >= 0; i-- {
		e := w.trees[i]
		pos, tree := w.treeMap.Get(e)
		w.notify(Event{Type: EventRemove, Entity: EntityRef{ID: tree.ID, Kind: KindTree}, X: pos.X, Y: pos.Y, Z: pos.Z})
		w.ecs.RemoveEntity(e)
	}
	w.trees = w.trees[:0]
}

// randomPoint draws a uniformly distributed point inside the usable
// radius. The square root on the radius avoids clustering at the center.
func (w *World) randomPoint() (float32, float32) {
	angle := w.rng.Float64() * 2 * math.Pi
	r := float64(w.usableRadius) * math.Sqrt(w.rng.Float64())
	return float32(math.Cos(angle) * r), float32(math.Sin(angle) * r)
}

// SpawnCreature adds a generation-zero creature with a random genome at
// (x, z), confined to the island.
func (w *World) SpawnCreature(x, z float32) EntityRef {
	g := genetics.NewRandom(w.rng, w.cfg.Genetics)
	e := w.spawnCreature(x, z, g, 0, float32(w.cfg.Creature.InitialEnergy))
	_, _, _, c, _ := w.creatureMap.Get(e)
	return EntityRef{ID: c.ID, Kind: KindCreature}
}

// SpawnOffspring adds a child creature with the given genome and
// generation and counts a birth.
func (w *World) SpawnOffspring(x, z float32, g genetics.Genome, generation int, parentID uint32) EntityRef {
	e := w.spawnCreature(x, z, g, generation, float32(w.cfg.Genetics.OffspringEnergy))
	pos, _, _, c, _ := w.creatureMap.Get(e)
	w.births++
	ref := EntityRef{ID: c.ID, Kind: KindCreature}
	w.notify(Event{
		Type:       EventBirth,
		Entity:     ref,
		Other:      EntityRef{ID: parentID, Kind: KindCreature},
		X:          pos.X,
		Y:          pos.Y,
		Z:          pos.Z,
		Amount:     c.Energy,
		Generation: generation,
	})
	return ref
}

func (w *World) spawnCreature(x, z float32, g genetics.Genome, generation int, energy float32) ecs.Entity {
	id := w.nextCreatureID
	w.nextCreatureID++

	maxEnergy := float32(w.cfg.Creature.MaxEnergy)
	if energy > maxEnergy {
		energy = maxEnergy
	}
	ground := float32(w.cfg.Physics.GroundLevel) + systems.BodySize(g, w.cfg)/2

	pos := components.Position{X: x, Y: ground, Z: z}
	vel := components.Velocity{}
	systems.ConfineToIsland(&pos, &vel, w.usableRadius)
	body := components.Body{GroundHeight: ground, Gravity: true, Grounded: true}
	crit := components.Creature{
		ID:         id,
		Generation: generation,
		Genome:     g,
		Energy:     energy,
		MaxEnergy:  maxEnergy,
		State:      components.StateWandering,
	}
	brain := w.behavior.NewBrain()

	e := w.creatureMap.NewEntity(&pos, &vel, &body, &crit, &brain)
	w.creatures = append(w.creatures, e)

	w.notify(Event{
		Type:       EventSpawn,
		Entity:     EntityRef{ID: id, Kind: KindCreature},
		X:          pos.X,
		Y:          pos.Y,
		Z:          pos.Z,
		Amount:     energy,
		Generation: generation,
	})
	return e
}

// SpawnFood adds a ground food item at (x, z) released at the given
// height; it falls to the ground under gravity.
func (w *World) SpawnFood(x, z, height float32) EntityRef {
	e := w.spawnFood(components.Position{X: x, Y: height, Z: z}, false, ecs.Entity{})
	f := w.foodOne.Get(e)
	return EntityRef{ID: f.ID, Kind: KindFood}
}

func (w *World) spawnFood(pos components.Position, onTree bool, tree ecs.Entity) ecs.Entity {
	id := w.nextFoodID
	w.nextFoodID++

	fc := w.cfg.Food
	radius := float32(fc.Radius)
	ground := float32(w.cfg.Physics.GroundLevel) + radius
	if pos.Y < ground {
		pos.Y = ground
	}

	vel := components.Velocity{}
	if !onTree {
		systems.ConfineToIsland(&pos, &vel, w.usableRadius)
	}
	body := components.Body{
		GroundHeight: ground,
		Gravity:      !onTree,
		Grounded:     pos.Y <= ground,
	}
	food := components.Food{
		ID:           id,
		Nutrition:    float32(fc.Nutrition),
		Radius:       radius,
		ExpiresAfter: systems.ExpirationFor(w.rng, w.cfg),
		OnTree:       onTree,
		Tree:         tree,
	}

	e := w.foodMap.NewEntity(&pos, &vel, &body, &food)
	w.food = append(w.food, e)

	w.notify(Event{
		Type:   EventSpawn,
		Entity: EntityRef{ID: id, Kind: KindFood},
		X:      pos.X,
		Y:      pos.Y,
		Z:      pos.Z,
		Amount: food.Nutrition,
	})
	return e
}

// SpawnTree plants a tree at (x, z) and grows its initial fruit.
func (w *World) SpawnTree(x, z float32) EntityRef {
	id := w.nextTreeID
	w.nextTreeID++

	pos := components.Position{X: x, Y: float32(w.cfg.Physics.GroundLevel), Z: z}
	var vel components.Velocity
	systems.ConfineToIsland(&pos, &vel, w.usableRadius)
	tree := w.flora.NewTree(id)

	e := w.treeMap.NewEntity(&pos, &tree)
	w.trees = append(w.trees, e)

	w.notify(Event{
		Type:   EventSpawn,
		Entity: EntityRef{ID: id, Kind: KindTree},
		X:      pos.X,
		Y:      pos.Y,
		Z:      pos.Z,
		Amount: tree.Height,
	})

	for i, n := 0, w.flora.InitialFruit(); i < n; i++ {
		w.growFruit(e)
	}
	return EntityRef{ID: id, Kind: KindTree}
}

// growFruit makes one spawn attempt for tree e. It reports whether a fruit
// was added; attempts at the cap or outside the island are skipped.
func (w *World) growFruit(e ecs.Entity) bool {
	pos, tree := w.treeMap.Get(e)
	if systems.PruneOutstanding(tree, w.liveFood) >= tree.MaxFood {
		return false
	}
	at, ok := w.flora.PlanFruit(*pos, tree, w.usableRadius)
	if !ok {
		return false
	}

	f := w.spawnFood(at, true, e)
	// Spawning may move component storage, so fetch the tree again.
	_, tree = w.treeMap.Get(e)
	tree.Outstanding = append(tree.Outstanding, f)
	return true
}

func (w *World) liveFood(e ecs.Entity) bool {
	return w.ecs.Alive(e) && w.foodOne.Get(e).Available()
}

// removeCreature drops the creature at index i of the live list.
func (w *World) removeCreature(i int) {
	e := w.creatures[i]
	pos, _, _, c, _ := w.creatureMap.Get(e)
	w.notify(Event{Type: EventRemove, Entity: EntityRef{ID: c.ID, Kind: KindCreature}, X: pos.X, Y: pos.Y, Z: pos.Z})
	w.ecs.RemoveEntity(e)
	w.creatures = slices.Delete(w.creatures, i, i+1)
}

// removeFood drops the food item at index i of the live list.
func (w *World) removeFood(i int) {
	e := w.food[i]
	pos, _, _, f := w.foodMap.Get(e)
	w.notify(Event{Type: EventRemove, Entity: EntityRef{ID: f.ID, Kind: KindFood}, X: pos.X, Y: pos.Y, Z: pos.Z})
	w.ecs.RemoveEntity(e)
	w.food = slices.Delete(w.food, i, i+1)
}
