package renderer

import (
	"testing"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/game"
)

func TestSceneTracksWorld(t *testing.T) {
	cfg := config.Default()
	cfg.World.InitialCreatures = 10
	cfg.World.InitialTrees = 4

	scene := NewScene()
	w, err := game.NewWorld(cfg, game.WithSeed(5), game.WithSink(scene))
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	check := func(when string) {
		t.Helper()
		want := len(w.Creatures()) + len(w.Trees())
		// Food views hide consumed items that are still awaiting removal.
		foodHandles := 0
		for ref := range scene.handles {
			if ref.Kind == game.KindFood {
				foodHandles++
			}
		}
		if got := scene.Len() - foodHandles; got != want {
			t.Errorf("%s: %d creature/tree handles, want %d", when, got, want)
		}
		for _, c := range w.Creatures() {
			if _, ok := scene.Handle(game.EntityRef{ID: c.ID, Kind: game.KindCreature}); !ok {
				t.Errorf("%s: creature %d has no handle", when, c.ID)
			}
		}
		for _, f := range w.Food() {
			if _, ok := scene.Handle(game.EntityRef{ID: f.ID, Kind: game.KindFood}); !ok {
				t.Errorf("%s: food %d has no handle", when, f.ID)
			}
		}
	}

	check("after construction")
	for i := 0; i < 600; i++ {
		w.Tick(1.0 / 30)
	}
	check("after ticking")

	if err := w.Reset(3, 1, 30); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	check("after reset")
	if len(scene.Effects()) != 0 {
		t.Errorf("reset left %d effects", len(scene.Effects()))
	}
}

func TestSceneEffectsExpire(t *testing.T) {
	scene := NewScene()
	scene.Notify(game.Event{Type: game.EventBirth, X: 1, Z: 2})
	scene.Notify(game.Event{Type: game.EventEat})
	scene.Notify(game.Event{Type: game.EventJump})

	effects := scene.Effects()
	if len(effects) != 3 || effects[0].Kind != EffectBirth || effects[1].Kind != EffectEat || effects[2].Kind != EffectJump {
		t.Fatalf("unexpected effects: %+v", effects)
	}

	scene.Update(effectLife / 2)
	if r := scene.Effects()[0].Ratio(); r < 0.49 || r > 0.51 {
		t.Errorf("ratio at half life = %f, want 0.5", r)
	}

	scene.Update(effectLife)
	if n := len(scene.Effects()); n != 0 {
		t.Errorf("%d effects survived their lifetime", n)
	}
}

func TestSceneEffectCap(t *testing.T) {
	scene := NewScene()
	for i := 0; i < maxEffects+10; i++ {
		scene.Notify(game.Event{Type: game.EventDeath, X: float32(i)})
	}
	effects := scene.Effects()
	if len(effects) != maxEffects {
		t.Fatalf("%d effects, want %d", len(effects), maxEffects)
	}
	if effects[len(effects)-1].X != float32(maxEffects+9) {
		t.Error("newest effect was dropped")
	}
}

func TestSceneGrow(t *testing.T) {
	scene := NewScene()
	ref := game.EntityRef{ID: 4, Kind: game.KindCreature}
	scene.Notify(game.Event{Type: game.EventSpawn, Entity: ref, Elapsed: 10})

	tests := []struct {
		now  float64
		want float32
	}{
		{10, 0.2},
		{10 + growTime/2, 0.6},
		{10 + growTime, 1},
		{100, 1},
	}
	for _, tt := range tests {
		if got := scene.Grow(ref, tt.now); got < tt.want-1e-4 || got > tt.want+1e-4 {
			t.Errorf("Grow at %v = %v, want %v", tt.now, got, tt.want)
		}
	}

	if got := scene.Grow(game.EntityRef{ID: 99}, 10); got != 1 {
		t.Errorf("unknown entity grow = %v, want 1", got)
	}

	scene.Notify(game.Event{Type: game.EventRemove, Entity: ref})
	if scene.Len() != 0 {
		t.Error("remove left a handle behind")
	}
}
