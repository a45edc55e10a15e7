package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
)

// heightBiasStrength sets how hard a bias of 0 or 1 pushes fruit toward the
// ground or the canopy top. The exponent spans [1/(1+k), 1+k].
const heightBiasStrength = 3.0

// HeightExponent maps a bias in [0,1] to the power applied to a uniform
// draw. 0.5 gives 1 (uniform), larger bias gives exponents below 1
// (towards the top), smaller bias gives exponents above 1 (towards the
// ground).
func HeightExponent(bias float64) float64 {
	if bias < 0 {
		bias = 0
	} else if bias > 1 {
		bias = 1
	}
	shift := math.Abs(bias-0.5) * 2 * heightBiasStrength
	if bias >= 0.5 {
		return 1 / (1 + shift)
	}
	return 1 + shift
}

// BiasedHeight draws a height in [lo, hi] whose distribution is shifted by bias.
func BiasedHeight(rng *rand.Rand, lo, hi, bias float64) float32 {
	u := rng.Float64()
	return float32(lo + math.Pow(u, HeightExponent(bias))*(hi-lo))
}

// FloraSystem grows fruit on trees.
type FloraSystem struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewFloraSystem creates a flora system drawing from rng.
func NewFloraSystem(cfg *config.Config, rng *rand.Rand) *FloraSystem {
	return &FloraSystem{cfg: cfg, rng: rng}
}

// NewTree returns a tree with a random height and a random phase offset on
// its spawn timer, so a forest does not fruit in lockstep.
func (s *FloraSystem) NewTree(id uint32) components.Tree {
	tc := s.cfg.Trees
	interval := float32(60 / tc.SpawnRate)
	return components.Tree{
		ID:            id,
		Height:        float32(tc.HeightMin + s.rng.Float64()*(tc.HeightMax-tc.HeightMin)),
		Width:         float32(tc.Width),
		SpawnRadius:   float32(tc.SpawnRadius),
		SpawnInterval: interval,
		Timer:         float32(s.rng.Float64()) * interval,
		MaxFood:       tc.MaxFood,
	}
}

// InitialFruit returns how many fruit a freshly planted tree attempts to grow.
func (s *FloraSystem) InitialFruit() int {
	tc := s.cfg.Trees
	return tc.InitialFoodMin + s.rng.Intn(tc.InitialFoodMax-tc.InitialFoodMin+1)
}

// Advance runs the tree's spawn timer for dt seconds and returns the number
// of spawn attempts that came due.
func (s *FloraSystem) Advance(t *components.Tree, dt float32) int {
	if t.SpawnInterval <= 0 {
		return 0
	}
	t.Timer += dt
	n := 0
	for t.Timer >= t.SpawnInterval {
		t.Timer -= t.SpawnInterval
		n++
	}
	return n
}

// PruneOutstanding drops fruit that is no longer live from the tree's list
// and returns how many remain. live reports whether an entity is still an
// available food item in the world.
func PruneOutstanding(t *components.Tree, live func(ecs.Entity) bool) int {
	kept := t.Outstanding[:0]
	for _, e := range t.Outstanding {
		if live(e) {
			kept = append(kept, e)
		}
	}
	// Clear the tail so removed entities are not retained by the backing array.
	for i := len(kept); i < len(t.Outstanding); i++ {
		t.Outstanding[i] = ecs.Entity{}
	}
	t.Outstanding = kept
	return len(kept)
}

// PlanFruit picks a position for a new fruit within the tree's spawn
// radius at a biased height. It returns false when the spot falls outside
// the usable island radius; the attempt is then skipped.
func (s *FloraSystem) PlanFruit(treePos components.Position, t *components.Tree, usableRadius float32) (components.Position, bool) {
	angle := s.rng.Float64() * 2 * math.Pi
	r := float64(t.SpawnRadius) * math.Sqrt(s.rng.Float64())
	height := BiasedHeight(s.rng, s.cfg.Food.Radius, float64(t.Height), s.cfg.Trees.FoodHeightBias)

	pos := components.Position{
		X: treePos.X + float32(math.Cos(angle)*r),
		Y: height,
		Z: treePos.Z + float32(math.Sin(angle)*r),
	}
	if !InsideIsland(pos.X, pos.Z, usableRadius) {
		return pos, false
	}
	return pos, true
}
