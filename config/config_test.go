package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.World.IslandRadius <= 0 {
		t.Errorf("island radius = %v, want positive", cfg.World.IslandRadius)
	}
	if got, want := cfg.Derived.UsableRadius, float32(cfg.World.IslandRadius-cfg.World.BoundaryMargin); got != want {
		t.Errorf("usable radius = %v, want %v", got, want)
	}
	if got, want := cfg.Derived.SpawnInterval, float32(60/cfg.Trees.SpawnRate); got != want {
		t.Errorf("spawn interval = %v, want %v", got, want)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "island.yaml")
	data := []byte("world:\n  island_radius: 80\ntrees:\n  spawn_rate: 12\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()

	if cfg.World.IslandRadius != 80 {
		t.Errorf("island radius = %v, want 80", cfg.World.IslandRadius)
	}
	if cfg.Derived.SpawnInterval != 5 {
		t.Errorf("spawn interval = %v, want 5", cfg.Derived.SpawnInterval)
	}
	if cfg.Creature.MaxEnergy != def.Creature.MaxEnergy {
		t.Errorf("max energy = %v, want default %v", cfg.Creature.MaxEnergy, def.Creature.MaxEnergy)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"inverted thresholds", func(c *Config) { c.Creature.SatisfiedThreshold = c.Creature.HungerThreshold }},
		{"zero spawn rate", func(c *Config) { c.Trees.SpawnRate = 0 }},
		{"negative spawn rate", func(c *Config) { c.Trees.SpawnRate = -1 }},
		{"negative radius", func(c *Config) { c.World.IslandRadius = -5 }},
		{"margin exceeds radius", func(c *Config) { c.World.BoundaryMargin = c.World.IslandRadius }},
		{"bias above one", func(c *Config) { c.Trees.FoodHeightBias = 1.5 }},
		{"empty trait range", func(c *Config) { c.Genetics.TraitMin = c.Genetics.TraitMax }},
		{"initial range outside clamp", func(c *Config) { c.Genetics.InitialMax = c.Genetics.TraitMax + 0.1 }},
		{"zero gravity", func(c *Config) { c.Physics.Gravity = 0 }},
		{"infinite radius", func(c *Config) { c.World.IslandRadius = math.Inf(1) }},
		{"reproduction cost above threshold", func(c *Config) {
			c.Genetics.ReproductionThreshold = 55
			c.Genetics.ReproductionCost = 70
		}},
		{"initial food inverted", func(c *Config) { c.Trees.InitialFoodMin = c.Trees.InitialFoodMax + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Trees.SpawnRate = 0
	cfg.Physics.Gravity = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("got %d problems, want 2", n)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Trees.FoodHeightBias = 0.9

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Trees.FoodHeightBias != 0.9 {
		t.Errorf("bias = %v, want 0.9", loaded.Trees.FoodHeightBias)
	}
}
