// Package renderer keeps the view-side state of the island: a handle per
// live entity and short-lived visual effects. The simulation core never
// imports it; the Scene learns about entities through world events. Drawing
// itself lives in the viewer package.
package renderer

import "github.com/pthm-cable/isle/game"

// Handle is the renderer's record for one live entity.
type Handle struct {
	Ref       game.EntityRef
	SpawnedAt float64 // sim time
	X, Y, Z   float32 // spawn position
}

// EffectKind identifies a short-lived visual effect.
type EffectKind uint8

const (
	EffectBirth EffectKind = iota
	EffectDeath
	EffectEat
	EffectJump
)

// Effect is a transient marker drawn where something happened.
type Effect struct {
	Kind    EffectKind
	X, Y, Z float32
	Age     float32 // seconds, wall clock
	Life    float32
}

// Ratio returns the remaining life in [0, 1].
func (e Effect) Ratio() float32 {
	if e.Life <= 0 {
		return 0
	}
	r := 1 - e.Age/e.Life
	if r < 0 {
		return 0
	}
	return r
}

const (
	effectLife = 0.8 // seconds
	growTime   = 0.5 // sim seconds for a spawned entity to reach full size
	maxEffects = 256
)

// Scene is the side table of render handles keyed by entity reference.
// It is filled and emptied by Spawn and Remove events, one handle per live
// entity, and implements game.Sink.
type Scene struct {
	handles map[game.EntityRef]Handle
	effects []Effect
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{handles: make(map[game.EntityRef]Handle)}
}

// Notify implements game.Sink.
func (s *Scene) Notify(ev game.Event) {
	switch ev.Type {
	case game.EventSpawn:
		s.handles[ev.Entity] = Handle{Ref: ev.Entity, SpawnedAt: ev.Elapsed, X: ev.X, Y: ev.Y, Z: ev.Z}
	case game.EventRemove:
		delete(s.handles, ev.Entity)
	case game.EventBirth:
		s.addEffect(EffectBirth, ev)
	case game.EventDeath:
		s.addEffect(EffectDeath, ev)
	case game.EventEat:
		s.addEffect(EffectEat, ev)
	case game.EventJump:
		s.addEffect(EffectJump, ev)
	case game.EventReset:
		s.effects = s.effects[:0]
	}
}

func (s *Scene) addEffect(kind EffectKind, ev game.Event) {
	if len(s.effects) >= maxEffects {
		// Drop the oldest
		s.effects = append(s.effects[:0], s.effects[1:]...)
	}
	s.effects = append(s.effects, Effect{Kind: kind, X: ev.X, Y: ev.Y, Z: ev.Z, Life: effectLife})
}

// Update ages effects by the wall-clock frame time and drops expired ones.
func (s *Scene) Update(dt float32) {
	live := s.effects[:0]
	for _, e := range s.effects {
		e.Age += dt
		if e.Age < e.Life {
			live = append(live, e)
		}
	}
	s.effects = live
}

// Effects returns the live effects. The slice is reused between frames.
func (s *Scene) Effects() []Effect {
	return s.effects
}

// Len returns the number of live handles.
func (s *Scene) Len() int {
	return len(s.handles)
}

// Handle returns the handle for ref.
func (s *Scene) Handle(ref game.EntityRef) (Handle, bool) {
	h, ok := s.handles[ref]
	return h, ok
}

// Grow returns the pop-in scale for ref at sim time now, rising from 0.2
// to 1 over growTime. Unknown entities draw at full size.
func (s *Scene) Grow(ref game.EntityRef, now float64) float32 {
	h, ok := s.handles[ref]
	if !ok {
		return 1
	}
	t := float32((now - h.SpawnedAt) / growTime)
	if t >= 1 {
		return 1
	}
	if t < 0 {
		t = 0
	}
	return 0.2 + 0.8*t
}
