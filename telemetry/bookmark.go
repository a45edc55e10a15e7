package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/isle/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationBoom   BookmarkType = "population_boom"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkFamine           BookmarkType = "famine"
	BookmarkStablePopulation BookmarkType = "stable_population"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" db:"type"`
	Tick        uint64       `csv:"tick" db:"tick"`
	SimTimeSec  float64      `csv:"sim_time" db:"sim_time"`
	Description string       `csv:"description" db:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int  // peak population since the last crash
	recentLow          int  // lowest population since the last boom
	famine             bool // inside a famine episode
	stableWindowsCount int  // consecutive windows with stable population
	extinct            bool
}

// NewBookmarkDetector creates a detector with the given history size and
// thresholds.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		recentLow:   -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkFamine(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStable(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}
	if bd.recentLow < 0 || stats.Population < bd.recentLow {
		bd.recentLow = stats.Population
	}

	return bookmarks
}

// Reset forgets all history, for a world reset.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize, bd.cfg)
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Population extinct after %d births and %d deaths in the last window", stats.Births, stats.Deaths),
	}
}

func (bd *BookmarkDetector) checkBoom(stats WindowStats) *Bookmark {
	if bd.recentLow <= 0 {
		return nil
	}
	c := bd.cfg.Boom
	gain := stats.Population - bd.recentLow
	growth := float64(gain) / float64(bd.recentLow)
	if growth > c.GrowthPercent && gain >= c.MinGain {
		oldLow := bd.recentLow
		bd.recentLow = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationBoom,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("Population grew %.0f%% from %d to %d", growth*100, oldLow, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}
	c := bd.cfg.Crash
	drop := bd.recentPeak - stats.Population
	dropPercent := float64(drop) / float64(bd.recentPeak)
	if dropPercent > c.DropPercent && drop >= c.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Population),
		}
	}
	return nil
}

// checkFamine fires once when a sizeable population ends a window with no
// food left and nobody ate.
func (bd *BookmarkDetector) checkFamine(stats WindowStats) *Bookmark {
	starving := stats.Food == 0 && stats.Eats == 0 && stats.Population >= bd.cfg.Famine.MinPopulation
	if !starving {
		bd.famine = false
		return nil
	}
	if bd.famine {
		return nil
	}
	bd.famine = true
	return &Bookmark{
		Type:        BookmarkFamine,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("No food available for %d creatures (%d seeking)", stats.Population, stats.Seeking),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	c := bd.cfg.Stable
	if stats.Population < c.MinPopulation {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(4)
	if len(history) < 4 {
		return nil
	}

	pops := make([]float64, 0, len(history))
	for _, h := range history {
		pops = append(pops, float64(h.Population))
	}
	mean, std := stat.PopMeanStdDev(pops, nil)

	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}

	if cv < c.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.StableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("Stable population of %d over %d windows (cv %.2f)", stats.Population, c.StableWindows, cv),
		}
	}
	return nil
}
