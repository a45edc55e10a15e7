package game

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/genetics"
)

// Stats is the aggregate snapshot published after every tick.
type Stats struct {
	Population    int
	FoodAvailable int
	Trees         int
	Births        int
	Deaths        int
	Eats          int
	Elapsed       float64
	Tick          uint64
	Seeking       int

	AvgSize       float64
	AvgJumpPower  float64
	AvgSpeed      float64
	AvgEnergy     float64
	MaxGeneration int

	Extinct bool
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("elapsed", s.Elapsed),
		slog.Int("population", s.Population),
		slog.Int("food", s.FoodAvailable),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("avg_size", s.AvgSize),
		slog.Float64("avg_jump_power", s.AvgJumpPower),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

type statsScratch struct {
	size, jump, speed, energy []float64
}

func (s *statsScratch) reset() {
	s.size = s.size[:0]
	s.jump = s.jump[:0]
	s.speed = s.speed[:0]
	s.energy = s.energy[:0]
}

// Stats returns the snapshot computed at the end of the last tick (or
// Reset).
func (w *World) Stats() Stats {
	return w.stats
}

func (w *World) refreshStats() {
	sc := &w.scratch
	sc.reset()

	s := Stats{
		Population: len(w.creatures),
		Trees:      len(w.trees),
		Births:     w.births,
		Deaths:     w.deaths,
		Eats:       w.eats,
		Elapsed:    w.elapsed,
		Tick:       w.tick,
		Extinct:    w.extinct,
	}

	for _, e := range w.creatures {
		c := w.critOne.Get(e)
		sc.size = append(sc.size, float64(c.Genome.Size))
		sc.jump = append(sc.jump, float64(c.Genome.JumpPower))
		sc.speed = append(sc.speed, float64(c.Genome.Speed))
		sc.energy = append(sc.energy, float64(c.Energy))
		if c.Generation > s.MaxGeneration {
			s.MaxGeneration = c.Generation
		}
		if c.State == components.StateSeekingFood {
			s.Seeking++
		}
	}
	if s.Population > 0 {
		s.AvgSize = stat.Mean(sc.size, nil)
		s.AvgJumpPower = stat.Mean(sc.jump, nil)
		s.AvgSpeed = stat.Mean(sc.speed, nil)
		s.AvgEnergy = stat.Mean(sc.energy, nil)
	}

	for _, e := range w.food {
		if w.foodOne.Get(e).Available() {
			s.FoodAvailable++
		}
	}

	w.stats = s
}

// CreatureView is the read-only state a renderer needs for one creature.
type CreatureView struct {
	ID         uint32
	X, Y, Z    float32
	Size       float32
	Energy     float32
	Fraction   float32
	State      components.BehaviorState
	Generation int
	Genome     genetics.Genome
	Color      genetics.RGB
}

// FoodView is the read-only state of one food item.
type FoodView struct {
	ID      uint32
	X, Y, Z float32
	Radius  float32
	OnTree  bool
	Age     float32
}

// TreeView is the read-only state of one tree.
type TreeView struct {
	ID          uint32
	X, Y, Z     float32
	Height      float32
	Width       float32
	SpawnRadius float32
	Fruit       int
}

// Creatures returns a view of every live creature in spawn order.
func (w *World) Creatures() []CreatureView {
	out := make([]CreatureView, 0, len(w.creatures))
	for _, e := range w.creatures {
		pos, _, body, c, _ := w.creatureMap.Get(e)
		frac := c.EnergyFraction()
		out = append(out, CreatureView{
			ID:         c.ID,
			X:          pos.X,
			Y:          pos.Y,
			Z:          pos.Z,
			Size:       2 * (body.GroundHeight - float32(w.cfg.Physics.GroundLevel)),
			Energy:     c.Energy,
			Fraction:   frac,
			State:      c.State,
			Generation: c.Generation,
			Genome:     c.Genome,
			Color:      c.Genome.Color(frac, c.State == components.StateSeekingFood),
		})
	}
	return out
}

// Food returns a view of every available food item.
func (w *World) Food() []FoodView {
	out := make([]FoodView, 0, len(w.food))
	for _, e := range w.food {
		pos, _, _, f := w.foodMap.Get(e)
		if !f.Available() {
			continue
		}
		out = append(out, FoodView{
			ID:     f.ID,
			X:      pos.X,
			Y:      pos.Y,
			Z:      pos.Z,
			Radius: f.Radius,
			OnTree: f.OnTree,
			Age:    f.Age,
		})
	}
	return out
}

// Trees returns a view of every tree.
func (w *World) Trees() []TreeView {
	out := make([]TreeView, 0, len(w.trees))
	for _, e := range w.trees {
		pos, t := w.treeMap.Get(e)
		fruit := 0
		for _, f := range t.Outstanding {
			if w.liveFood(f) {
				fruit++
			}
		}
		out = append(out, TreeView{
			ID:          t.ID,
			X:           pos.X,
			Y:           pos.Y,
			Z:           pos.Z,
			Height:      t.Height,
			Width:       t.Width,
			SpawnRadius: t.SpawnRadius,
			Fruit:       fruit,
		})
	}
	return out
}
