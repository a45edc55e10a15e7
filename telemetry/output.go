package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/isle/config"
)

// csvLog is an append-only CSV file of one record type. The header goes
// out with the first row.
type csvLog[T any] struct {
	name    string
	f       *os.File
	started bool
}

func openCSVLog[T any](dir, name string) (*csvLog[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog[T]{name: name, f: f}, nil
}

func (l *csvLog[T]) append(rec T) error {
	rows := []T{rec}
	var err error
	if l.started {
		err = gocsv.MarshalWithoutHeaders(rows, l.f)
	} else {
		err = gocsv.Marshal(rows, l.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.started = true
	return nil
}

func (l *csvLog[T]) close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}

// OutputManager writes a run's CSV logs and config snapshot into one
// directory. A nil manager discards everything.
type OutputManager struct {
	dir       string
	windows   *csvLog[WindowStats]
	perf      *csvLog[PerfStatsCSV]
	bookmarks *csvLog[Bookmark]
	lifetimes *csvLog[LifetimeRecord]
}

// NewOutputManager creates dir and opens telemetry.csv, perf.csv,
// bookmarks.csv and lifetimes.csv inside it. An empty dir disables output
// and returns nil, nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.windows, err = openCSVLog[WindowStats](dir, "telemetry.csv"); err == nil {
		if om.perf, err = openCSVLog[PerfStatsCSV](dir, "perf.csv"); err == nil {
			if om.bookmarks, err = openCSVLog[Bookmark](dir, "bookmarks.csv"); err == nil {
				om.lifetimes, err = openCSVLog[LifetimeRecord](dir, "lifetimes.csv")
			}
		}
	}
	if err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig snapshots cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends one window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.windows.append(stats)
}

// WritePerf appends the perf summary for the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	return om.perf.append(stats.ToCSV(windowEnd))
}

func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.append(b)
}

func (om *OutputManager) WriteLifetime(r LifetimeRecord) error {
	if om == nil {
		return nil
	}
	return om.lifetimes.append(r)
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open log and reports all failures.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.windows.close(), om.perf.close(), om.bookmarks.close(), om.lifetimes.close())
}
