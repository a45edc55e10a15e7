package telemetry

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/isle/config"
)

// Run is one simulation run recorded in the archive.
type Run struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	StartedAt  int64  `db:"started_at"` // Unix seconds
	EndedAt    int64  `db:"ended_at"`
	ConfigYAML string `db:"config_yaml"`

	FinalTick     uint64  `db:"final_tick"`
	SimTimeSec    float64 `db:"sim_time"`
	Births        int     `db:"births"`
	Deaths        int     `db:"deaths"`
	Extinct       bool    `db:"extinct"`
	MaxPopulation int     `db:"max_population"`
}

// Archive stores runs, their telemetry windows and bookmarks in SQLite so
// runs can be compared after the fact.
type Archive struct {
	conn *sqlx.DB
}

// windowColumns lists the windows table columns backed by WindowStats.
var windowColumns = []string{
	"window_start", "window_end", "sim_time",
	"population", "food", "trees", "seeking",
	"births", "deaths", "eats", "food_eaten", "lifespan_mean",
	"energy_mean", "energy_p10", "energy_p50", "energy_p90",
	"size_mean", "size_std", "jump_power_mean", "jump_power_std",
	"speed_mean", "perception_mean", "efficiency_mean", "genome_diversity",
	"max_generation", "active_lineages",
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL DEFAULT 0,
		config_yaml TEXT NOT NULL,
		final_tick INTEGER NOT NULL DEFAULT 0,
		sim_time REAL NOT NULL DEFAULT 0,
		births INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		extinct INTEGER NOT NULL DEFAULT 0,
		max_population INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS windows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		population INTEGER NOT NULL,
		food INTEGER NOT NULL,
		trees INTEGER NOT NULL,
		seeking INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		eats INTEGER NOT NULL,
		food_eaten REAL NOT NULL,
		lifespan_mean REAL NOT NULL,
		energy_mean REAL NOT NULL,
		energy_p10 REAL NOT NULL,
		energy_p50 REAL NOT NULL,
		energy_p90 REAL NOT NULL,
		size_mean REAL NOT NULL,
		size_std REAL NOT NULL,
		jump_power_mean REAL NOT NULL,
		jump_power_std REAL NOT NULL,
		speed_mean REAL NOT NULL,
		perception_mean REAL NOT NULL,
		efficiency_mean REAL NOT NULL,
		genome_diversity REAL NOT NULL DEFAULT 0,
		max_generation INTEGER NOT NULL,
		active_lineages INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		type TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_windows_run ON windows(run_id, window_end);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_run ON bookmarks(run_id, tick);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// StartRun records a new run and its effective configuration.
func (a *Archive) StartRun(id string, seed int64, startedAt int64, cfg *config.Config) error {
	if a == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal run config: %w", err)
	}
	_, err = a.conn.Exec(
		`INSERT INTO runs (id, seed, started_at, config_yaml) VALUES (?, ?, ?, ?)`,
		id, seed, startedAt, string(data))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}
	return nil
}

// FinishRun stores the run's final summary.
func (a *Archive) FinishRun(r Run) error {
	if a == nil {
		return nil
	}
	_, err := a.conn.NamedExec(`UPDATE runs SET
		ended_at = :ended_at,
		final_tick = :final_tick,
		sim_time = :sim_time,
		births = :births,
		deaths = :deaths,
		extinct = :extinct,
		max_population = :max_population
		WHERE id = :id`, r)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", r.ID, err)
	}
	return nil
}

type windowRow struct {
	RunID string `db:"run_id"`
	WindowStats
}

// WriteWindow appends one telemetry window to the run.
func (a *Archive) WriteWindow(runID string, s WindowStats) error {
	if a == nil {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO windows (run_id, %s) VALUES (:run_id, :%s)",
		strings.Join(windowColumns, ", "), strings.Join(windowColumns, ", :"))
	if _, err := a.conn.NamedExec(query, windowRow{RunID: runID, WindowStats: s}); err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

type bookmarkRow struct {
	RunID string `db:"run_id"`
	Bookmark
}

// WriteBookmark appends a bookmark to the run.
func (a *Archive) WriteBookmark(runID string, b Bookmark) error {
	if a == nil {
		return nil
	}
	_, err := a.conn.NamedExec(`INSERT INTO bookmarks (run_id, type, tick, sim_time, description)
		VALUES (:run_id, :type, :tick, :sim_time, :description)`, bookmarkRow{RunID: runID, Bookmark: b})
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// GetRun loads a run by ID.
func (a *Archive) GetRun(id string) (Run, error) {
	var r Run
	err := a.conn.Get(&r, `SELECT id, seed, started_at, ended_at, config_yaml, final_tick,
		sim_time, births, deaths, extinct, max_population FROM runs WHERE id = ?`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// Windows returns the run's telemetry windows in order.
func (a *Archive) Windows(runID string) ([]WindowStats, error) {
	var out []WindowStats
	query := fmt.Sprintf("SELECT %s FROM windows WHERE run_id = ? ORDER BY window_end", strings.Join(windowColumns, ", "))
	if err := a.conn.Select(&out, query, runID); err != nil {
		return nil, fmt.Errorf("select windows: %w", err)
	}
	return out, nil
}

// Bookmarks returns the run's bookmarks in tick order.
func (a *Archive) Bookmarks(runID string) ([]Bookmark, error) {
	var out []Bookmark
	err := a.conn.Select(&out, `SELECT type, tick, sim_time, description
		FROM bookmarks WHERE run_id = ? ORDER BY tick, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("select bookmarks: %w", err)
	}
	return out, nil
}
