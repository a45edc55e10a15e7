package systems

import (
	"testing"
	"time"

	"github.com/pthm-cable/isle/telemetry"
)

func TestPhasesMatchPerfPhases(t *testing.T) {
	got := Phases()
	if len(got) != len(telemetry.Phases) {
		t.Fatalf("got %d phases, want %d", len(got), len(telemetry.Phases))
	}
	for i, p := range got {
		if p.ID != telemetry.Phases[i] {
			t.Errorf("phase %d = %q, want %q", i, p.ID, telemetry.Phases[i])
		}
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{telemetry.PhaseSpatial, "Food Index"},
		{telemetry.PhaseTrees, "Trees"},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := PhaseName(tt.id); got != tt.want {
				t.Errorf("PhaseName(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	stats := telemetry.PerfStats{
		PhaseAvg: map[string]time.Duration{
			telemetry.PhaseCreatures: 300 * time.Microsecond,
			telemetry.PhaseTrees:     50 * time.Microsecond,
			telemetry.PhaseStats:     20 * time.Microsecond,
		},
		PhasePct: map[string]float64{
			telemetry.PhaseCreatures: 60,
			telemetry.PhaseTrees:     10,
			telemetry.PhaseStats:     4,
			telemetry.PhaseTelemetry: 1,
		},
	}

	ordered := Breakdown(stats, false)
	if ordered[0].ID != telemetry.PhaseSpatial {
		t.Errorf("tick order starts with %q", ordered[0].ID)
	}

	ranked := Breakdown(stats, true)
	if ranked[0].ID != telemetry.PhaseCreatures || ranked[0].Avg != 300 {
		t.Errorf("most expensive = %+v", ranked[0])
	}
	if ranked[1].ID != telemetry.PhaseTrees {
		t.Errorf("second = %q, want trees", ranked[1].ID)
	}

	if got := OverheadPct(stats); got != 5 {
		t.Errorf("OverheadPct = %v, want 5", got)
	}
}
