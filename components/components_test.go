package components

import "testing"

func TestFoodConsumeIdempotent(t *testing.T) {
	f := Food{Nutrition: 20}

	if !f.Consume() {
		t.Fatal("first Consume should succeed")
	}
	if f.Consume() {
		t.Error("second Consume should report false")
	}
	if !f.Consumed || f.Available() {
		t.Errorf("food state after consume: consumed=%v available=%v", f.Consumed, f.Available())
	}
}

func TestExpiredFoodCannotBeConsumed(t *testing.T) {
	f := Food{Nutrition: 20, Expired: true}
	if f.Consume() {
		t.Error("expired food should not be consumable")
	}
	if f.Consumed {
		t.Error("expired food should not flip to consumed")
	}
}

func TestEnergyFraction(t *testing.T) {
	tests := []struct {
		energy, max, want float32
	}{
		{50, 100, 0.5},
		{0, 100, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		c := Creature{Energy: tt.energy, MaxEnergy: tt.max}
		if got := c.EnergyFraction(); got != tt.want {
			t.Errorf("EnergyFraction(%v/%v) = %v, want %v", tt.energy, tt.max, got, tt.want)
		}
	}
}

func TestBehaviorStateString(t *testing.T) {
	if StateWandering.String() != "wandering" || StateSeekingFood.String() != "seeking_food" {
		t.Errorf("unexpected names %q %q", StateWandering, StateSeekingFood)
	}
	if BehaviorState(9).String() != "Unknown" {
		t.Error("out of range state should be Unknown")
	}
}
