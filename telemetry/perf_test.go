package telemetry

import (
	"testing"
	"time"
)

// runTicks drives pc through n ticks, sleeping in each phase for the
// given duration.
func runTicks(pc *PerfCollector, n int, phases map[string]time.Duration, order ...string) {
	for range n {
		pc.StartTick()
		for _, name := range order {
			pc.StartPhase(name)
			if d := phases[name]; d > 0 {
				time.Sleep(d)
			}
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTracksPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[string]time.Duration{
		PhaseSpatial:   100 * time.Microsecond,
		PhaseCreatures: 200 * time.Microsecond,
	}, PhaseSpatial, PhaseCreatures)

	s := pc.Stats()
	if s.AvgTickDuration <= 0 || s.TicksPerSecond <= 0 {
		t.Fatalf("no tick timing: %+v", s)
	}
	for _, name := range []string{PhaseSpatial, PhaseCreatures} {
		if s.PhaseAvg[name] <= 0 {
			t.Errorf("phase %q not timed", name)
		}
	}
	if s.MinTickDuration > s.P95TickDuration || s.P95TickDuration > s.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", s.P95TickDuration, s.MinTickDuration, s.MaxTickDuration)
	}
}

func TestPerfCollectorPhaseShare(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[string]time.Duration{
		"fast": 10 * time.Microsecond,
		"slow": 500 * time.Microsecond,
	}, "fast", "slow")

	s := pc.Stats()
	if s.PhasePct["slow"] <= s.PhasePct["fast"] {
		t.Errorf("slow %.1f%% <= fast %.1f%%", s.PhasePct["slow"], s.PhasePct["fast"])
	}
	if total := s.PhasePct["slow"] + s.PhasePct["fast"]; total > 100.0001 {
		t.Errorf("phase shares sum to %.2f%%", total)
	}
}

func TestPerfCollectorWindowWraps(t *testing.T) {
	pc := NewPerfCollector(3)
	runTicks(pc, 3, map[string]time.Duration{"old": 50 * time.Microsecond}, "old")
	runTicks(pc, 4, nil, "new")

	s := pc.Stats()
	if s.PhaseAvg["old"] != 0 {
		t.Errorf("phase outside the window still averages %v", s.PhaseAvg["old"])
	}
	if _, ok := s.PhaseAvg["new"]; !ok {
		t.Error("current phase missing")
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(0).Stats()
	if s.AvgTickDuration != 0 || s.FPS != 0 {
		t.Errorf("empty collector reported timing: %+v", s)
	}
	if s.PhaseAvg == nil || s.PhasePct == nil {
		t.Error("phase maps should be non-nil")
	}
}

func TestPerfCollectorFrames(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration < 15*time.Millisecond || s.FPS <= 0 {
		t.Errorf("frame = %v, fps = %v", s.FrameDuration, s.FPS)
	}
}

func TestPerfCollectorNil(t *testing.T) {
	var pc *PerfCollector
	pc.StartTick()
	pc.StartPhase(PhaseCreatures)
	pc.EndTick()
	pc.RecordFrame()
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		P95TickDuration: 400 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseCreatures: 60, PhaseTrees: 15},
	}
	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 250 || row.P95TickUS != 400 {
		t.Errorf("unexpected timing columns: %+v", row)
	}
	if row.CreaturesPct != 60 || row.TreesPct != 15 || row.FoodPct != 0 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
}
