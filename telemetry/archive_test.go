package telemetry

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/isle/config"
)

func TestArchiveRoundTrip(t *testing.T) {
	a, err := OpenArchive(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer a.Close()

	const runID = "run-1"
	if err := a.StartRun(runID, 42, 1700000000, config.Default()); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	windows := []WindowStats{
		{WindowStartTick: 0, WindowEndTick: 600, SimTimeSec: 10, Population: 20, Births: 3, SizeMean: 1.1},
		{WindowStartTick: 600, WindowEndTick: 1200, SimTimeSec: 20, Population: 24, Deaths: 1, ActiveLineages: 7},
	}
	for _, w := range windows {
		if err := a.WriteWindow(runID, w); err != nil {
			t.Fatalf("WriteWindow failed: %v", err)
		}
	}
	bm := Bookmark{Type: BookmarkPopulationBoom, Tick: 1200, SimTimeSec: 20, Description: "grew"}
	if err := a.WriteBookmark(runID, bm); err != nil {
		t.Fatalf("WriteBookmark failed: %v", err)
	}
	if err := a.FinishRun(Run{ID: runID, EndedAt: 1700000100, FinalTick: 1200, Births: 3, Deaths: 1, MaxPopulation: 24}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := a.Windows(runID)
	if err != nil {
		t.Fatalf("Windows failed: %v", err)
	}
	if len(got) != len(windows) {
		t.Fatalf("got %d windows, want %d", len(got), len(windows))
	}
	for i := range windows {
		if got[i] != windows[i] {
			t.Errorf("window %d = %+v, want %+v", i, got[i], windows[i])
		}
	}

	bms, err := a.Bookmarks(runID)
	if err != nil {
		t.Fatalf("Bookmarks failed: %v", err)
	}
	if len(bms) != 1 || bms[0] != bm {
		t.Errorf("bookmarks = %+v, want [%+v]", bms, bm)
	}

	run, err := a.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Seed != 42 || run.FinalTick != 1200 || run.MaxPopulation != 24 || run.Extinct {
		t.Errorf("unexpected run row: %+v", run)
	}
	if !strings.Contains(run.ConfigYAML, "island_radius") {
		t.Error("run config not stored")
	}
}

func TestArchiveNilSafe(t *testing.T) {
	var a *Archive
	if err := a.WriteWindow("x", WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := a.Close(); err != nil {
		t.Error(err)
	}
}
