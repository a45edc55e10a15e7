package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/isle/genetics"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9.9) {
		t.Error("flush due before the window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("flush not due at the window length")
	}

	c.RecordBirth()
	c.RecordBirth()
	c.RecordDeath(20)
	c.RecordDeath(40)
	c.RecordEat(25)
	c.RecordEat(15)

	g := genetics.Neutral()
	big := g
	big.Size = 2
	stats := c.Flush(600, 10, Sample{
		Population: 2,
		Food:       7,
		Energies:   []float64{40, 60},
		Genomes:    []genetics.Genome{g, big},
	})

	if stats.Births != 2 || stats.Deaths != 2 || stats.Eats != 2 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.FoodEaten != 40 {
		t.Errorf("food eaten = %v, want 40", stats.FoodEaten)
	}
	if stats.Lifespan != 30 {
		t.Errorf("mean lifespan = %v, want 30", stats.Lifespan)
	}
	if stats.EnergyMean != 50 {
		t.Errorf("energy mean = %v, want 50", stats.EnergyMean)
	}
	if math.Abs(stats.SizeMean-1.5) > 1e-6 || math.Abs(stats.SizeStd-0.5) > 1e-6 {
		t.Errorf("size stats = (%v, %v), want (1.5, 0.5)", stats.SizeMean, stats.SizeStd)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 600 {
		t.Errorf("window ticks = [%d, %d], want [0, 600]", stats.WindowStartTick, stats.WindowEndTick)
	}

	// Counters reset and the next window starts where this one ended.
	next := c.Flush(1200, 20, Sample{})
	if next.Births != 0 || next.Deaths != 0 || next.Eats != 0 || next.Lifespan != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 600 {
		t.Errorf("next window start = %d, want 600", next.WindowStartTick)
	}
	if c.ShouldFlush(25) {
		t.Error("flush due only 5s into the window")
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(5)
	c.RecordBirth()
	c.Flush(300, 5, Sample{})
	c.RecordEat(3)
	c.Reset()

	if !c.ShouldFlush(5) || c.ShouldFlush(4) {
		t.Error("window did not restart at zero")
	}
	if s := c.Flush(1, 5, Sample{}); s.Eats != 0 {
		t.Errorf("reset kept %d eats", s.Eats)
	}
}
