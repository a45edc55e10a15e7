package systems

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/isle/telemetry"
)

// PhaseInfo labels one tick phase for display.
type PhaseInfo struct {
	ID       string // perf collector phase name
	Name     string
	Summary  string
	Internal bool // bookkeeping rather than simulation work
}

// phaseTable lists the tick phases in the order World.Tick runs them.
var phaseTable = []PhaseInfo{
	{ID: telemetry.PhaseSpatial, Name: "Food Index", Summary: "Rebuilds the nearest-food grid"},
	{ID: telemetry.PhaseCreatures, Name: "Creatures", Summary: "Metabolism, breeding, behavior and physics"},
	{ID: telemetry.PhaseFood, Name: "Food", Summary: "Ages, drops and prunes food"},
	{ID: telemetry.PhaseTrees, Name: "Trees", Summary: "Grows fruit on trees"},
	{ID: telemetry.PhaseStats, Name: "Stats", Summary: "Recomputes the statistics snapshot", Internal: true},
	{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Summary: "Flushes windows, bookmarks and archives", Internal: true},
}

// Phases returns the tick phases in tick order.
func Phases() []PhaseInfo {
	return slices.Clone(phaseTable)
}

// PhaseName returns the display name for a phase, or the ID itself.
func PhaseName(id string) string {
	if i := slices.IndexFunc(phaseTable, func(p PhaseInfo) bool { return p.ID == id }); i >= 0 {
		return phaseTable[i].Name
	}
	return id
}

// PhaseLoad is one phase's share of the average tick.
type PhaseLoad struct {
	PhaseInfo
	Avg float64 // microseconds
	Pct float64
}

// Breakdown pairs every known phase with its timing from stats. When
// byCost is set the result is sorted most expensive first, otherwise it
// stays in tick order.
func Breakdown(stats telemetry.PerfStats, byCost bool) []PhaseLoad {
	out := make([]PhaseLoad, len(phaseTable))
	for i, p := range phaseTable {
		out[i] = PhaseLoad{
			PhaseInfo: p,
			Avg:       float64(stats.PhaseAvg[p.ID].Microseconds()),
			Pct:       stats.PhasePct[p.ID],
		}
	}
	if byCost {
		slices.SortStableFunc(out, func(a, b PhaseLoad) int { return cmp.Compare(b.Pct, a.Pct) })
	}
	return out
}

// OverheadPct is the share of the tick spent in internal phases.
func OverheadPct(stats telemetry.PerfStats) float64 {
	var pct float64
	for _, p := range phaseTable {
		if p.Internal {
			pct += stats.PhasePct[p.ID]
		}
	}
	return pct
}
