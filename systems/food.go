package systems

import (
	"math/rand"

	"github.com/pthm-cable/isle/components"
	"github.com/pthm-cable/isle/config"
)

// minExpiration keeps a heavily jittered lifetime from collapsing to zero.
const minExpiration = 1.0

// ExpirationFor draws a per-item lifetime uniformly within
// mean*(1±jitter).
func ExpirationFor(rng *rand.Rand, cfg *config.Config) float32 {
	j := cfg.Food.ExpirationJitter * (2*rng.Float64() - 1)
	d := cfg.Food.ExpirationMean * (1 + j)
	if d < minExpiration {
		d = minExpiration
	}
	return float32(d)
}

// AgeFood advances a food item's age and marks it expired once its
// lifetime is used up. It reports whether the item is expired.
func AgeFood(f *components.Food, dt float32) bool {
	f.Age += dt
	if !f.Expired && f.Age >= f.ExpiresAfter {
		f.Expired = true
	}
	return f.Expired
}
