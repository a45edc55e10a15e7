package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/genetics"
)

func TestCanReproduce(t *testing.T) {
	cfg := testConfig()
	cfg.Genetics.ReproductionThreshold = 85
	cfg.Genetics.ReproductionCooldown = 10

	tests := []struct {
		name   string
		energy float32
		timer  float32
		want   bool
	}{
		{"eligible", 90, 10, true},
		{"at threshold", 85, 12, true},
		{"below threshold", 84.9, 12, false},
		{"cooling down", 95, 9.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCreature(tt.energy)
			c.ReproTimer = tt.timer
			if got := CanReproduce(&c, cfg); got != tt.want {
				t.Errorf("CanReproduce = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReproduceEconomics(t *testing.T) {
	cfg := testConfig()
	cfg.Genetics.ReproductionThreshold = 85
	cfg.Genetics.ReproductionCost = 40
	cfg.Genetics.ReproductionCooldown = 10
	cfg.Genetics.OffspringDistance = 2
	cfg.Genetics.MutationRate = 1
	cfg.Genetics.MutationAmount = 0.2
	rng := rand.New(rand.NewSource(5))

	parent := newCreature(90)
	parent.Generation = 3
	parent.ReproTimer = 15
	parent.Genome = genetics.Genome{Speed: 1, Perception: 1, Efficiency: 1, Size: 1, Hue: 0.5, JumpPower: 1}
	parentGenome := parent.Genome
	pos := components.Position{X: 4, Y: 0.5, Z: -3}

	if !CanReproduce(&parent, cfg) {
		t.Fatal("parent should be eligible")
	}
	child := Reproduce(rng, &parent, &pos, cfg)

	if parent.Energy != 50 {
		t.Errorf("parent energy = %v, want 50", parent.Energy)
	}
	if parent.ReproTimer != 0 {
		t.Errorf("parent repro timer = %v, want 0", parent.ReproTimer)
	}
	if parent.Genome != parentGenome {
		t.Error("parent genome modified")
	}
	if child.Generation != 4 || child.ParentID != parent.ID {
		t.Errorf("child generation=%d parent=%d, want 4 and %d", child.Generation, child.ParentID, parent.ID)
	}

	d := math.Hypot(float64(child.X-pos.X), float64(child.Z-pos.Z))
	if math.Abs(d-2) > 1e-4 {
		t.Errorf("offspring offset %v, want 2", d)
	}

	limit := float32(cfg.Genetics.MutationAmount) + 1e-6
	diffs := []float32{
		child.Genome.Speed - parentGenome.Speed,
		child.Genome.Perception - parentGenome.Perception,
		child.Genome.Efficiency - parentGenome.Efficiency,
		child.Genome.Size - parentGenome.Size,
		child.Genome.JumpPower - parentGenome.JumpPower,
		genetics.HueDistance(child.Genome.Hue, parentGenome.Hue),
	}
	for i, diff := range diffs {
		if diff > limit || diff < -limit {
			t.Errorf("trait %d differs by %v, want at most %v", i, diff, limit)
		}
	}
}

func TestExpirationFor(t *testing.T) {
	cfg := testConfig()
	cfg.Food.ExpirationMean = 60
	cfg.Food.ExpirationJitter = 0.3
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 1000; i++ {
		d := ExpirationFor(rng, cfg)
		if d < 42 || d > 78 {
			t.Fatalf("expiration %v outside [42, 78]", d)
		}
	}
}

func TestAgeFood(t *testing.T) {
	f := components.Food{ExpiresAfter: 2}

	if AgeFood(&f, 1.5) {
		t.Error("expired too early")
	}
	if !AgeFood(&f, 0.5) {
		t.Error("should expire when age reaches lifetime")
	}
	if !f.Expired || f.Available() {
		t.Error("expired flag not set")
	}
	AgeFood(&f, 1)
	if !f.Expired {
		t.Error("expired flag must stay set")
	}
}
