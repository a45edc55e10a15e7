package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/isle/config"
	"github.com/pthm-cable/isle/telemetry"
)

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config has %v, spec default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigStaysValid(t *testing.T) {
	pv := NewParamVector()

	tests := []struct {
		name string
		x    []float64
	}{
		{"defaults", pv.DefaultVector()},
		{"below bounds", []float64{-5, -5, -5, -5, -5, -5, -5}},
		{"above bounds", []float64{1e6, 1e6, 1e6, 1e6, 1e6, 1e6, 1e6}},
		{"cost above threshold", []float64{6, 25, 1.5, 55, 70, 50, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			pv.ApplyToConfig(cfg, tt.x)
			if err := cfg.Refresh(); err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			if cfg.Genetics.ReproductionCost > cfg.Genetics.ReproductionThreshold {
				t.Errorf("cost %v exceeds threshold %v", cfg.Genetics.ReproductionCost, cfg.Genetics.ReproductionThreshold)
			}
			got := pv.ExtractFromConfig(cfg)
			for i, spec := range pv.Specs {
				if got[i] < spec.Min || got[i] > spec.Max {
					t.Errorf("%s = %v outside [%v, %v]", spec.Name, got[i], spec.Min, spec.Max)
				}
			}
		})
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Population: 40, EnergyP50: 50, SizeStd: 0.3}
	}
	q := computeQuality(steady)
	if q < 0.9 || q > 1 {
		t.Errorf("steady quality = %v, want in [0.9, 1]", q)
	}

	if got := computeQuality(steady[:3]); got != 0 {
		t.Errorf("warmup-only quality = %v, want 0", got)
	}

	dying := make([]telemetry.WindowStats, 10)
	for i := range dying {
		dying[i] = telemetry.WindowStats{Population: 1}
	}
	if got := computeQuality(dying); got != 0 {
		t.Errorf("below viable quality = %v, want 0", got)
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	short := &runResult{survivalTicks: 100}
	long := &runResult{survivalTicks: 1000}
	if computeFitness(long, 1000) >= computeFitness(short, 1000) {
		t.Error("longer survival should have lower fitness")
	}
}
