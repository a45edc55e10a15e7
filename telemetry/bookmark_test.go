package telemetry

import (
	"testing"

	"github.com/pthm-cable/isle/config"
)

func newTestDetector() *BookmarkDetector {
	return NewBookmarkDetector(10, config.Default().Bookmarks)
}

func countType(bookmarks []Bookmark, typ BookmarkType) int {
	n := 0
	for _, bm := range bookmarks {
		if bm.Type == typ {
			n++
		}
	}
	return n
}

func TestBookmarkDetector_PopulationBoom(t *testing.T) {
	bd := newTestDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Population: 20, Food: 30, Eats: 5})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 40, Food: 30, Eats: 5})
	if countType(bookmarks, BookmarkPopulationBoom) != 1 {
		t.Errorf("expected population_boom bookmark, got %+v", bookmarks)
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := newTestDetector()

	// Build up population
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Population: 100, Food: 30, Eats: 5})
	}

	// Crash by 50%
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 50, Food: 30, Eats: 5})
	if countType(bookmarks, BookmarkPopulationCrash) != 1 {
		t.Errorf("expected population_crash bookmark, got %+v", bookmarks)
	}
}

func TestBookmarkDetector_NoCrashOnSmallDrop(t *testing.T) {
	bd := newTestDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Population: 100, Food: 30, Eats: 5})
	}

	// Drop by only 20%
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 80, Food: 30, Eats: 5})
	if countType(bookmarks, BookmarkPopulationCrash) != 0 {
		t.Error("unexpected population_crash bookmark for small drop")
	}
}

func TestBookmarkDetector_Famine(t *testing.T) {
	bd := newTestDetector()
	bd.Check(WindowStats{Population: 12, Food: 4, Eats: 3})

	hungry := WindowStats{Population: 12, Food: 0, Eats: 0, Seeking: 12}
	if got := countType(bd.Check(hungry), BookmarkFamine); got != 1 {
		t.Fatalf("first famine window gave %d bookmarks, want 1", got)
	}
	if got := countType(bd.Check(hungry), BookmarkFamine); got != 0 {
		t.Errorf("ongoing famine re-triggered (%d)", got)
	}

	bd.Check(WindowStats{Population: 12, Food: 6, Eats: 2})
	if got := countType(bd.Check(hungry), BookmarkFamine); got != 1 {
		t.Errorf("new famine after recovery gave %d bookmarks, want 1", got)
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := newTestDetector()

	total := 0
	for i := 0; i < 20; i++ {
		pop := 50 + i%2 // tiny oscillation
		total += countType(bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Population: pop, Food: 20, Eats: 10}), BookmarkStablePopulation)
	}
	if total != 1 {
		t.Errorf("stable_population fired %d times, want exactly 1", total)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newTestDetector()
	bd.Check(WindowStats{Population: 3, Food: 10})

	if got := countType(bd.Check(WindowStats{Population: 0, Deaths: 3}), BookmarkExtinction); got != 1 {
		t.Fatalf("extinction gave %d bookmarks, want 1", got)
	}
	if got := countType(bd.Check(WindowStats{Population: 0}), BookmarkExtinction); got != 0 {
		t.Error("extinction re-triggered while still extinct")
	}

	bd.Reset()
	if got := countType(bd.Check(WindowStats{Population: 0}), BookmarkExtinction); got != 1 {
		t.Error("extinction after reset not reported")
	}
}

func TestBookmarkDetector_RecentOrder(t *testing.T) {
	bd := NewBookmarkDetector(5, config.Default().Bookmarks)
	for i := 1; i <= 7; i++ {
		bd.addToHistory(WindowStats{Population: i})
	}
	got := bd.recent(3)
	if len(got) != 3 || got[0].Population != 5 || got[2].Population != 7 {
		t.Errorf("recent(3) = %+v, want populations 5, 6, 7", got)
	}
}
