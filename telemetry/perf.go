package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step, in tick order.
const (
	PhaseSpatial   = "spatial"
	PhaseCreatures = "creatures"
	PhaseFood      = "food"
	PhaseTrees     = "trees"
	PhaseStats     = "stats"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase name in tick order.
var Phases = []string{PhaseSpatial, PhaseCreatures, PhaseFood, PhaseTrees, PhaseStats, PhaseTelemetry}

// PerfCollector keeps a rolling window of tick timings broken down by
// phase. Phases are registered the first time StartPhase names them; each
// has its own ring parallel to the tick ring.
type PerfCollector struct {
	window int
	next   int // ring write position
	filled int // valid samples, at most window

	ticks    []time.Duration
	names    []string
	index    map[string]int
	phaseDur [][]time.Duration
	current  []time.Duration // this tick, by phase index

	tickStart  time.Time
	phaseStart time.Time
	phase      int // index of the running phase, -1 for none

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window: windowSize,
		ticks:  make([]time.Duration, windowSize),
		index:  make(map[string]int),
		phase:  -1,
	}
}

// StartTick begins timing a new simulation tick. All timing methods are
// no-ops on a nil collector.
func (p *PerfCollector) StartTick() {
	if p == nil {
		return
	}
	p.tickStart = time.Now()
	clear(p.current)
	p.phase = -1
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)

	i, ok := p.index[phase]
	if !ok {
		i = len(p.names)
		p.index[phase] = i
		p.names = append(p.names, phase)
		p.phaseDur = append(p.phaseDur, make([]time.Duration, p.window))
		p.current = append(p.current, 0)
	}
	p.phase = i
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and records the tick in the window.
func (p *PerfCollector) EndTick() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = -1

	p.ticks[p.next] = now.Sub(p.tickStart)
	for i, d := range p.current {
		p.phaseDur[i][p.next] = d
	}
	p.next = (p.next + 1) % p.window
	if p.filled < p.window {
		p.filled++
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration // average per tick
	PhasePct map[string]float64       // share of the average tick, in percent

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window. Phases seen before the window
// filled count as zero for the older ticks.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.names)),
		PhasePct:      make(map[string]float64, len(p.names)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	ticks := make([]float64, p.filled)
	var total time.Duration
	for i, d := range p.ticks[:p.filled] {
		total += d
		ticks[i] = float64(d)
	}
	sort.Float64s(ticks)

	n := time.Duration(p.filled)
	out.AvgTickDuration = total / n
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}

	for i, name := range p.names {
		var sum time.Duration
		for _, d := range p.phaseDur[i][:p.filled] {
			sum += d
		}
		avg := sum / n
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", math.Round(pct*10)/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SpatialPct   float64 `csv:"spatial_pct"`
	CreaturesPct float64 `csv:"creatures_pct"`
	FoodPct      float64 `csv:"food_pct"`
	TreesPct     float64 `csv:"trees_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SpatialPct:   s.PhasePct[PhaseSpatial],
		CreaturesPct: s.PhasePct[PhaseCreatures],
		FoodPct:      s.PhasePct[PhaseFood],
		TreesPct:     s.PhasePct[PhaseTrees],
		StatsPct:     s.PhasePct[PhaseStats],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
