package game

import (
	"log/slog"

	"github.com/pthm-cable/isle/systems"
	"github.com/pthm-cable/isle/telemetry"
)

// Tick advances the simulation by one wall-clock frame. Nothing happens
// while paused or extinct, for non-positive deltas, or for deltas above
// the configured maximum (a backgrounded window, a debugger pause).
//
// Order within a tick: creatures, then food, then trees, then the clock,
// extinction check and statistics.
func (w *World) Tick(wallDt float64) {
	if w.paused || w.extinct {
		return
	}
	if !(wallDt > 0) {
		return
	}
	if wallDt > w.cfg.World.MaxFrameDelta {
		slog.Debug("skipping oversized frame", "delta", wallDt, "max", w.cfg.World.MaxFrameDelta)
		return
	}
	dt := float32(wallDt * w.timeScale)

	w.perf.StartTick()

	w.perf.StartPhase(telemetry.PhaseSpatial)
	w.foodIndex.Rebuild(w.food)

	w.perf.StartPhase(telemetry.PhaseCreatures)
	w.updateCreatures(dt)

	w.perf.StartPhase(telemetry.PhaseFood)
	w.updateFood(dt)

	w.perf.StartPhase(telemetry.PhaseTrees)
	w.updateTrees(dt)

	w.elapsed += float64(dt)
	w.tick++

	if len(w.creatures) == 0 {
		w.extinct = true
		w.notify(Event{Type: EventExtinction})
		slog.Warn("population extinct",
			"tick", w.tick,
			"elapsed", w.elapsed,
			"births", w.births,
			"deaths", w.deaths,
		)
	}

	w.perf.StartPhase(telemetry.PhaseStats)
	w.refreshStats()

	if w.hook != nil {
		w.perf.StartPhase(telemetry.PhaseTelemetry)
		w.hook()
	}

	w.perf.EndTick()
}

// updateCreatures runs every creature present at the start of the pass,
// newest first. Offspring appended during the pass sit past the starting
// index and are not visited until the next tick.
func (w *World) updateCreatures(dt float32) {
	gravity := w.cfg.Derived.Gravity32

	for i := len(w.creatures) - 1; i >= 0; i-- {
		e := w.creatures[i]
		pos, vel, body, c, brain := w.creatureMap.Get(e)

		if !systems.Metabolize(c, w.cfg, dt) {
			w.deaths++
			w.notify(Event{
				Type:       EventDeath,
				Entity:     EntityRef{ID: c.ID, Kind: KindCreature},
				X:          pos.X,
				Y:          pos.Y,
				Z:          pos.Z,
				Amount:     c.Age,
				Generation: c.Generation,
			})
			w.removeCreature(i)
			continue
		}

		if systems.CanReproduce(c, w.cfg) {
			child := systems.Reproduce(w.rng, c, pos, w.cfg)
			w.SpawnOffspring(child.X, child.Z, child.Genome, child.Generation, child.ParentID)
			// The new entity may have moved this archetype's storage.
			pos, vel, body, c, brain = w.creatureMap.Get(e)
		}

		systems.UpdateState(c, w.cfg)

		actor := systems.Actor{Pos: pos, Vel: vel, Body: body, Creature: c, Brain: brain}
		out := w.behavior.Think(actor, w.foodIndex, dt)
		if out.Jumped {
			w.notify(Event{
				Type:   EventJump,
				Entity: EntityRef{ID: c.ID, Kind: KindCreature},
				X:      pos.X,
				Y:      pos.Y,
				Z:      pos.Z,
				Amount: vel.Y,
			})
		}
		if out.Ate {
			w.eats++
			w.notify(Event{
				Type:   EventEat,
				Entity: EntityRef{ID: c.ID, Kind: KindCreature},
				Other:  EntityRef{ID: out.FoodID, Kind: KindFood},
				X:      pos.X,
				Y:      pos.Y,
				Z:      pos.Z,
				Amount: out.Nutrition,
			})
		}

		systems.Integrate(pos, vel, body, dt, gravity)
		systems.ConfineToIsland(pos, vel, w.usableRadius)
	}
}

// updateFood ages every item, lets ground food settle and prunes anything
// eaten or expired.
func (w *World) updateFood(dt float32) {
	gravity := w.cfg.Derived.Gravity32

	for i := len(w.food) - 1; i >= 0; i-- {
		pos, vel, body, f := w.foodMap.Get(w.food[i])

		systems.AgeFood(f, dt)
		if !f.Available() {
			w.removeFood(i)
			continue
		}
		if !f.OnTree {
			systems.Integrate(pos, vel, body, dt, gravity)
			systems.ConfineToIsland(pos, vel, w.usableRadius)
		}
	}
}

// updateTrees runs each tree's spawn timer and grows fruit for every
// attempt that came due, up to the tree's cap.
func (w *World) updateTrees(dt float32) {
	for _, e := range w.trees {
		_, tree := w.treeMap.Get(e)
		attempts := w.flora.Advance(tree, dt)
		for range attempts {
			w.growFruit(e)
		}
	}
}

