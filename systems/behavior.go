package systems

import (
	"math/rand"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
)

// FoodLocator finds the nearest available food within a horizontal radius.
type FoodLocator interface {
	Nearest(x, z, radius float32) (FoodTarget, bool)
}

// Actor bundles the components the behavior controller reads and writes.
type Actor struct {
	Pos      *components.Position
	Vel      *components.Velocity
	Body     *components.Body
	Creature *components.Creature
	Brain    *components.Brain
}

// Outcome reports what a think step did, for event notification.
type Outcome struct {
	Ate       bool
	FoodID    uint32
	Nutrition float32
	Jumped    bool
}

// BehaviorSystem drives creature movement: a random walk while wandering
// and a direct approach, with jumps, while seeking food.
type BehaviorSystem struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewBehaviorSystem creates a behavior system drawing from rng.
func NewBehaviorSystem(cfg *config.Config, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{cfg: cfg, rng: rng}
}

// NewBrain returns a brain with a random heading and a wander interval
// jittered around the configured base, fixed for the creature's life.
func (s *BehaviorSystem) NewBrain() components.Brain {
	base := s.cfg.Creature.WanderInterval
	jitter := s.cfg.Creature.WanderJitter * (2*s.rng.Float64() - 1)
	dx, dz := randomUnit2D(s.rng.Float64())
	return components.Brain{
		DirX:     dx,
		DirZ:     dz,
		Interval: float32(base * (1 + jitter)),
	}
}

// Think runs the behavior for the creature's current state. The state
// itself is chosen before Think is called, except that eating enough to be
// satisfied switches back to wandering.
func (s *BehaviorSystem) Think(a Actor, foods FoodLocator, dt float32) Outcome {
	if a.Creature.State == components.StateSeekingFood {
		return s.SeekFood(a, foods, dt)
	}
	s.Wander(a, dt)
	return Outcome{}
}

// Wander keeps the creature walking in its current direction, picking a
// new one each time the interval elapses.
func (s *BehaviorSystem) Wander(a Actor, dt float32) {
	b := a.Brain
	b.Elapsed += dt
	if b.Elapsed > b.Interval {
		b.DirX, b.DirZ = randomUnit2D(s.rng.Float64())
		b.Elapsed = 0
	}

	speed := EffectiveSpeed(a.Creature.Genome, s.cfg)
	a.Vel.X = b.DirX * speed
	a.Vel.Z = b.DirZ * speed
}

// SeekFood heads for the nearest visible food, eating it when in reach and
// jumping for it when it hangs above but within jump height.
func (s *BehaviorSystem) SeekFood(a Actor, foods FoodLocator, dt float32) Outcome {
	c := a.Creature
	target, ok := foods.Nearest(a.Pos.X, a.Pos.Z, PerceptionRadius(c.Genome, s.cfg))
	if !ok {
		s.Wander(a, dt)
		return Outcome{}
	}

	fp := target.Pos
	horizontal := Distance2D(a.Pos.X, a.Pos.Z, fp.X, fp.Z)
	vertical := fp.Y - a.Pos.Y
	dist := Distance3D(a.Pos.X, a.Pos.Y, a.Pos.Z, fp.X, fp.Y, fp.Z)

	if dist <= EatRadius(c.Genome, s.cfg) {
		var out Outcome
		if gained, ok := Eat(c, target.Food); ok {
			out = Outcome{Ate: true, FoodID: target.Food.ID, Nutrition: gained}
		}
		if c.Energy > float32(s.cfg.Creature.SatisfiedThreshold) {
			c.State = components.StateWandering
		}
		return out
	}

	var out Outcome
	jc := s.cfg.Jumping
	if jc.Enabled &&
		vertical > float32(jc.MinHeightGap) &&
		horizontal <= float32(jc.HorizontalRange) &&
		CanReach(c, vertical, s.cfg) {
		out.Jumped = Jump(c, a.Vel, a.Body, s.cfg)
	}

	dx, dz := Normalize2D(fp.X-a.Pos.X, fp.Z-a.Pos.Z)
	speed := EffectiveSpeed(c.Genome, s.cfg) * float32(s.cfg.Creature.SeekSpeedMultiplier)
	a.Vel.X = dx * speed
	a.Vel.Z = dz * speed
	return out
}
