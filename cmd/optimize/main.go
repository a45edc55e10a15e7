// Command optimize searches island parameters with CMA-ES for settings
// that keep a population alive and stable.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/isle/config"
)

type options struct {
	configPath string
	maxTicks   uint64
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Uint64Var(&o.maxTicks, "max-ticks", 180000, "Tick cap per simulation run")
	flag.IntVar(&o.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = 4 + 3·dim/2)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for optimize_log.csv and best_config.yaml")
	flag.Parse()

	// Runs log at info level; only errors should interleave with progress.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	if err := run(o); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(o.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()

	params := NewParamVector()
	seeds := make([]int64, o.seeds)
	for i := range seeds {
		seeds[i] = 42 + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, o.maxTicks, seeds, base)

	log, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"))
	if err != nil {
		return err
	}
	defer log.f.Close()

	popSize := o.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	fmt.Printf("CMA-ES over %d parameters: population %d, budget %d evals, %d seeds × %s ticks\n",
		params.Dim(), popSize, o.maxEvals, o.seeds, humanize.Comma(int64(o.maxTicks)))

	tr := &tracker{params: params, evaluator: evaluator, log: log, budget: o.maxEvals, start: time.Now()}
	problem := optimize.Problem{Func: tr.evaluate}
	// Seeds already run in parallel inside each evaluation.
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}

	result, err := optimize.Minimize(problem, params.Normalize(params.ExtractFromConfig(base)), settings, method)
	if err != nil {
		fmt.Printf("optimizer stopped: %v\n", err)
	}

	best := tr.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluations completed")
	}

	fmt.Printf("\n%d evaluations in %s, best fitness %.4f\n", tr.evals, formatDuration(time.Since(tr.start)), tr.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-18s %-34s %.4f\n", spec.Name, spec.Path, best[i])
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(cfg, best)
	out := filepath.Join(o.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("best config: %s\n", out)
	return nil
}

// tracker wraps the evaluator, logging each evaluation and remembering
// the best clamped parameters seen.
type tracker struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *evalLog
	budget    int
	start     time.Time

	evals       int
	best        []float64
	bestFitness float64
}

func (t *tracker) evaluate(x []float64) float64 {
	// The clamped values are the ones actually simulated.
	values := t.params.Clamp(t.params.Denormalize(x))
	fitness := t.evaluator.Evaluate(values)
	quality := t.evaluator.LastQuality()
	t.evals++

	if t.best == nil || fitness < t.bestFitness {
		t.best, t.bestFitness = values, fitness
	}
	if err := t.log.write(NewEvalRecord(t.evals, fitness, quality, values)); err != nil {
		slog.Error("failed to write eval log", "error", err)
	}

	elapsed := time.Since(t.start)
	eta := time.Duration(t.budget-t.evals) * (elapsed / time.Duration(t.evals))
	fmt.Printf("[%3d/%d] survived %3.0f%%  quality %.2f  best %.3f  %s elapsed, ~%s left\n",
		t.evals, t.budget, 100*-fitness/(1+0.5*quality), quality, t.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
	return fitness
}

// evalLog is optimize_log.csv.
type evalLog struct {
	f       *os.File
	started bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &evalLog{f: f}, nil
}

func (l *evalLog) write(rec EvalRecord) error {
	rows := []EvalRecord{rec}
	if l.started {
		return gocsv.MarshalWithoutHeaders(rows, l.f)
	}
	l.started = true
	return gocsv.Marshal(rows, l.f)
}

// formatDuration renders d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
