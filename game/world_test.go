package game

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/genetics"
	"github.com/pthm-cable/isle/systems"
)

func newTestWorld(t *testing.T, mutate func(*config.Config), opts ...Option) *World {
	t.Helper()
	cfg := config.Default()
	cfg.World.InitialCreatures = 0
	cfg.World.InitialTrees = 0
	cfg.World.MaxFrameDelta = 2
	if mutate != nil {
		mutate(cfg)
	}
	w, err := NewWorld(cfg, append([]Option{WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Trees.SpawnRate = 0
	if _, err := NewWorld(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewWorld error = %v, want ErrInvalid", err)
	}
}

func TestNewWorldPopulates(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) {
		c.World.InitialCreatures = 12
		c.World.InitialTrees = 3
	})
	s := w.Stats()
	if s.Population != 12 || s.Trees != 3 {
		t.Errorf("population %d trees %d, want 12 and 3", s.Population, s.Trees)
	}
	if s.FoodAvailable == 0 {
		t.Error("expected trees to seed initial food")
	}
	for _, c := range w.Creatures() {
		if r := math.Hypot(float64(c.X), float64(c.Z)); r > float64(w.UsableRadius())+1e-3 {
			t.Errorf("creature %d spawned at radius %v beyond %v", c.ID, r, w.UsableRadius())
		}
	}
}

func TestStarvation(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) { c.Creature.BaseDrain = 2 })
	e := w.spawnCreature(0, 0, genetics.Neutral(), 0, 5)

	for i, want := range []float32{3, 1} {
		w.Tick(1)
		if len(w.creatures) != 1 {
			t.Fatalf("tick %d: creature removed early", i+1)
		}
		if c := w.critOne.Get(e); !approx(c.Energy, want) {
			t.Fatalf("tick %d: energy = %v, want %v", i+1, c.Energy, want)
		}
	}

	w.Tick(1)
	if len(w.creatures) != 0 {
		t.Fatal("starved creature still live")
	}
	if w.ecs.Alive(e) {
		t.Error("starved entity still alive in the registry")
	}
	if got := w.Stats().Deaths; got != 1 {
		t.Errorf("deaths = %d, want 1", got)
	}
}

func TestReproductionThroughTick(t *testing.T) {
	w := newTestWorld(t, nil)
	cfg := w.Config()
	parent := w.spawnCreature(0, 0, genetics.Neutral(), 3, 90)
	w.critOne.Get(parent).ReproTimer = float32(cfg.Genetics.ReproductionCooldown)

	w.Tick(0.1)

	if got := w.Stats().Births; got != 1 {
		t.Fatalf("births = %d, want 1", got)
	}
	if len(w.creatures) != 2 {
		t.Fatalf("population = %d, want 2", len(w.creatures))
	}

	p := w.critOne.Get(parent)
	drain := float32(cfg.Creature.BaseDrain * 0.1)
	want := 90 - drain - float32(cfg.Genetics.ReproductionCost)
	if !approx(p.Energy, want) {
		t.Errorf("parent energy = %v, want %v", p.Energy, want)
	}
	if p.ReproTimer != 0 {
		t.Errorf("parent repro timer = %v, want 0", p.ReproTimer)
	}

	child := w.critOne.Get(w.creatures[1])
	if child.Generation != 4 {
		t.Errorf("child generation = %d, want 4", child.Generation)
	}
	if child.Energy != float32(cfg.Genetics.OffspringEnergy) {
		t.Errorf("child energy = %v, want %v", child.Energy, cfg.Genetics.OffspringEnergy)
	}
	if child.Age != 0 {
		t.Errorf("child was updated in its birth tick (age %v)", child.Age)
	}
}

func TestNewWorldRejectsCostAboveThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Genetics.ReproductionThreshold = 55
	cfg.Genetics.ReproductionCost = 70
	if _, err := NewWorld(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewWorld error = %v, want ErrInvalid", err)
	}
}

func TestReproductionAtFullCostKeepsEnergyInRange(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) {
		c.Genetics.ReproductionThreshold = 55
		c.Genetics.ReproductionCost = 55
		c.Genetics.ReproductionCooldown = 0
	})
	parent := w.spawnCreature(0, 0, genetics.Neutral(), 0, 60)

	w.Tick(0.1)

	if got := w.Stats().Births; got != 1 {
		t.Fatalf("births = %d, want 1", got)
	}
	maxEnergy := float32(w.Config().Creature.MaxEnergy)
	for _, e := range w.creatures {
		if c := w.critOne.Get(e); c.Energy < 0 || c.Energy > maxEnergy {
			t.Errorf("creature energy %v outside [0, %v]", c.Energy, maxEnergy)
		}
	}
	if c := w.critOne.Get(parent); c.Energy > 5 {
		t.Errorf("parent energy = %v, want close to zero", c.Energy)
	}
}

func TestJumpRaisesEvent(t *testing.T) {
	var jumps []Event
	w := newTestWorld(t, nil, WithSink(SinkFunc(func(ev Event) {
		if ev.Type == EventJump {
			jumps = append(jumps, ev)
		}
	})))
	cfg := w.Config()
	w.spawnCreature(0, 0, genetics.Neutral(), 0, 20)

	// Hanging fruit straight overhead, above eating reach but within a jump.
	ground := float32(cfg.Physics.GroundLevel) + systems.BodySize(genetics.Neutral(), cfg)/2
	w.spawnFood(components.Position{Y: ground + 2}, true, ecs.Entity{})

	w.Tick(0.1)

	if len(jumps) != 1 {
		t.Fatalf("got %d jump events, want 1", len(jumps))
	}
	if jumps[0].Amount <= 0 || jumps[0].Entity.Kind != KindCreature {
		t.Errorf("unexpected jump event: %+v", jumps[0])
	}
}

func TestTreeCapEnforced(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) { c.Trees.MaxFood = 10 })
	w.SpawnCreature(40, 0)
	w.SpawnTree(0, 0)
	tree := w.trees[0]

	for len(w.food) < 10 {
		if !w.growFruit(tree) {
			t.Fatal("growFruit refused below the cap")
		}
	}
	if w.growFruit(tree) {
		t.Fatal("growFruit exceeded the cap")
	}

	spawned := 0
	w.sink = SinkFunc(func(ev Event) {
		if ev.Type == EventSpawn && ev.Entity.Kind == KindFood {
			spawned++
		}
	})

	_, tr := w.treeMap.Get(tree)
	tr.Timer = tr.SpawnInterval
	w.Tick(0.01)
	if spawned != 0 || len(w.food) != 10 {
		t.Errorf("full tree spawned %d fruit (food %d), want 0 (10)", spawned, len(w.food))
	}

	// Eating one frees a slot for the next scheduled attempt.
	w.foodOne.Get(w.food[0]).Consume()
	_, tr = w.treeMap.Get(tree)
	tr.Timer = tr.SpawnInterval
	w.Tick(0.01)
	if spawned != 1 || len(w.food) != 10 {
		t.Errorf("after a free slot spawned %d fruit (food %d), want 1 (10)", spawned, len(w.food))
	}
}

func TestExtinctionAndReset(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) { c.Creature.BaseDrain = 50 })
	for i := 0; i < 3; i++ {
		w.spawnCreature(float32(i), 0, genetics.Neutral(), 0, 10)
	}

	var extinctions int
	w.sink = SinkFunc(func(ev Event) {
		if ev.Type == EventExtinction {
			extinctions++
		}
	})

	w.Tick(1)
	if !w.Extinct() || extinctions != 1 {
		t.Fatalf("extinct = %v with %d events, want true and 1", w.Extinct(), extinctions)
	}
	tick := w.Stats().Tick
	w.Tick(0.1)
	if w.Stats().Tick != tick {
		t.Error("extinct world kept ticking")
	}

	if err := w.Reset(5, 2, 30); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	s := w.Stats()
	if w.Extinct() || s.Extinct {
		t.Error("reset did not clear extinction")
	}
	if s.Population != 5 || s.Trees != 2 || s.Tick != 0 || s.Deaths != 0 || s.Elapsed != 0 {
		t.Errorf("unexpected stats after reset: %+v", s)
	}
	if w.IslandRadius() != 30 {
		t.Errorf("island radius = %v, want 30", w.IslandRadius())
	}
	if w.Paused() {
		t.Error("reset left the world paused")
	}
}

func TestResetRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		creatures int
		trees     int
		radius    float32
		want      error
	}{
		{"negative creatures", -1, 2, 40, ErrInvalidCount},
		{"negative trees", 2, -1, 40, ErrInvalidCount},
		{"radius equals margin", 2, 2, 2, ErrInvalidRadius},
		{"negative radius", 2, 2, -5, ErrInvalidRadius},
		{"infinite radius", 2, 2, float32(math.Inf(1)), ErrInvalidRadius},
		{"NaN radius", 2, 2, float32(math.NaN()), ErrInvalidRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, func(c *config.Config) {
				c.World.InitialCreatures = 4
				c.World.InitialTrees = 1
			})
			before := w.Creatures()

			err := w.Reset(tt.creatures, tt.trees, tt.radius)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Reset error = %v, want %v", err, tt.want)
			}
			if !slices.Equal(before, w.Creatures()) {
				t.Error("failed reset changed the world")
			}
		})
	}
}

func TestPausedTickHasNoEffect(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) {
		c.World.InitialCreatures = 6
		c.World.InitialTrees = 2
	})
	before, food := w.Creatures(), w.Food()

	if !w.TogglePause() {
		t.Fatal("TogglePause did not pause")
	}
	w.Tick(1.0 / 60)
	w.TogglePause()
	w.Tick(0)
	w.Tick(-1)

	if !slices.Equal(before, w.Creatures()) || !slices.Equal(food, w.Food()) {
		t.Error("paused or zero-length ticks changed the world")
	}
	if w.Stats().Tick != 0 {
		t.Errorf("tick = %d, want 0", w.Stats().Tick)
	}
}

func TestOversizedDeltaSkipped(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) {
		c.World.InitialCreatures = 3
		c.World.MaxFrameDelta = 0.25
	})
	before := w.Creatures()
	w.Tick(0.5)
	if w.Stats().Tick != 0 || !slices.Equal(before, w.Creatures()) {
		t.Error("oversized delta was integrated")
	}
	w.Tick(0.2)
	if w.Stats().Tick != 1 {
		t.Error("accepted delta did not tick")
	}
}

func TestSetTimeScale(t *testing.T) {
	w := newTestWorld(t, func(c *config.Config) { c.World.InitialCreatures = 1 })
	w.SetTimeScale(3)
	for _, bad := range []float64{0, -2, math.NaN()} {
		w.SetTimeScale(bad)
	}
	if w.TimeScale() != 3 {
		t.Fatalf("time scale = %v, want 3", w.TimeScale())
	}
	w.Tick(0.1)
	if got := w.Stats().Elapsed; math.Abs(got-0.3) > 1e-6 {
		t.Errorf("elapsed = %v, want 0.3", got)
	}
}

func TestShowStateIconsPassthrough(t *testing.T) {
	w := newTestWorld(t, nil)
	w.SetShowStateIcons(true)
	if !w.ShowStateIcons() {
		t.Error("flag not stored")
	}
}

// TestTickInvariants runs a full island and checks population accounting,
// energy bounds, confinement and event bookkeeping after every tick.
func TestTickInvariants(t *testing.T) {
	live := map[EntityRef]bool{}
	var births, deaths, eats int
	sink := SinkFunc(func(ev Event) {
		switch ev.Type {
		case EventSpawn:
			if live[ev.Entity] {
				t.Fatalf("duplicate spawn of %+v", ev.Entity)
			}
			live[ev.Entity] = true
		case EventRemove:
			if !live[ev.Entity] {
				t.Fatalf("remove of unknown %+v", ev.Entity)
			}
			delete(live, ev.Entity)
		case EventBirth:
			births++
		case EventDeath:
			deaths++
		case EventEat:
			eats++
		}
	})

	w := newTestWorld(t, func(c *config.Config) {
		c.World.InitialCreatures = 20
		c.World.InitialTrees = 8
	}, WithSink(sink))
	w.SetTimeScale(4)

	for i := 0; i < 3000 && !w.Extinct(); i++ {
		before := w.Stats()
		w.Tick(1.0 / 60)
		after := w.Stats()

		born := after.Births - before.Births
		died := after.Deaths - before.Deaths
		if after.Population != before.Population-died+born {
			t.Fatalf("tick %d: population %d, want %d - %d + %d", after.Tick, after.Population, before.Population, died, born)
		}

		for _, c := range w.Creatures() {
			if c.Energy < 0 || c.Energy > float32(w.Config().Creature.MaxEnergy) {
				t.Fatalf("tick %d: creature %d energy %v out of bounds", after.Tick, c.ID, c.Energy)
			}
			if r := math.Hypot(float64(c.X), float64(c.Z)); r > float64(w.UsableRadius())+1e-3 {
				t.Fatalf("tick %d: creature %d at radius %v", after.Tick, c.ID, r)
			}
		}
	}

	s := w.Stats()
	if births != s.Births || deaths != s.Deaths || eats != s.Eats {
		t.Errorf("events (%d births, %d deaths, %d eats) disagree with stats %+v", births, deaths, eats, s)
	}

	kinds := map[EntityKind]int{}
	for ref := range live {
		kinds[ref.Kind]++
	}
	if kinds[KindCreature] != len(w.creatures) || kinds[KindFood] != len(w.food) || kinds[KindTree] != len(w.trees) {
		t.Errorf("event bookkeeping %v disagrees with world (%d creatures, %d food, %d trees)",
			kinds, len(w.creatures), len(w.food), len(w.trees))
	}
	if s.Eats == 0 {
		t.Error("expected some creature to eat")
	}
}

func BenchmarkTick(b *testing.B) {
	cfg := config.Default()
	cfg.World.InitialCreatures = 200
	cfg.World.InitialTrees = 30
	w, err := NewWorld(cfg, WithSeed(7))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if w.Extinct() {
			b.StopTimer()
			if err := w.Reset(200, 30, float32(cfg.World.IslandRadius)); err != nil {
				b.Fatal(err)
			}
			b.StartTimer()
		}
		w.Tick(1.0 / 60)
	}
}
