package analyzer

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/internal/monitoring"
)

// Explorer batch-evaluates the full pipeline across a Cartesian product of
// window parameters. Each combination runs as an independent job on a
// bounded worker pool; one combination's failure is logged and never stops
// the others.
type Explorer struct {
	store    PriceStore
	cacheDir string
	opts     Options
	logger   *zap.Logger
}

// NewExplorer creates an Explorer persisting tables under cacheDir.
func NewExplorer(store PriceStore, cacheDir string, opts Options) *Explorer {
	opts.normalize()
	return &Explorer{store: store, cacheDir: cacheDir, opts: opts, logger: opts.Logger}
}

// Combination identifies one evaluated (x, y, z) tuple.
type Combination struct {
	X float64
	Y float64
	Z float64
}

// CombinationFailure records one combination that failed to evaluate.
type CombinationFailure struct {
	Combination Combination
	Err         error
}

// ExploreSummary is the post-run accounting of a combination batch.
type ExploreSummary struct {
	Total     int
	Succeeded int
	Failures  []CombinationFailure
}

// SaveCombinations evaluates every (x, y, z) in the product of the given
// value lists and persists one performance table file per combination to
// the cache directory, for later offline parameter search. Fail-soft at
// combination granularity.
func (e *Explorer) SaveCombinations(xValues, yValues, zValues []float64, today time.Time) ExploreSummary {
	var combos []Combination
	for _, x := range xValues {
		for _, y := range yValues {
			for _, z := range zValues {
				combos = append(combos, Combination{X: x, Y: y, Z: z})
			}
		}
	}

	summary := ExploreSummary{Total: len(combos)}

	type outcome struct {
		combo Combination
		err   error
	}

	jobs := make(chan Combination)
	results := make(chan outcome)

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for combo := range jobs {
				results <- outcome{combo: combo, err: e.evaluateAndSave(combo, today)}
			}
		}()
	}

	go func() {
		for _, combo := range combos {
			jobs <- combo
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.err != nil {
			monitoring.CombinationFailures.Inc()
			summary.Failures = append(summary.Failures, CombinationFailure{Combination: result.combo, Err: result.err})
			e.logger.Warn("combination evaluation failed",
				zap.Float64("x", result.combo.X),
				zap.Float64("y", result.combo.Y),
				zap.Float64("z", result.combo.Z),
				zap.Error(result.err))
			continue
		}
		summary.Succeeded++
	}

	e.logger.Info("combination exploration complete",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", len(summary.Failures)))

	return summary
}

// evaluateAndSave is the whole per-combination pipeline as one pure job:
// plan, build, persist.
func (e *Explorer) evaluateAndSave(combo Combination, today time.Time) error {
	window, err := PlanWindows(combo.X, combo.Y, combo.Z, today)
	if err != nil {
		return err
	}

	// Each combination gets a fully serial analyzer; the pool-level
	// parallelism across combinations is the concurrency tier here.
	opts := e.opts
	opts.Workers = 1
	opts.Logger = e.logger

	table, err := New(e.store, window, opts).Table()
	if err != nil {
		return err
	}

	_, err = SaveTable(e.cacheDir, table)
	return err
}

// RankedCombination is one (x, y, N) evaluation in an optimal-parameter
// search, ranked by the losers portfolio's forward performance.
type RankedCombination struct {
	X              float64
	Y              float64
	N              int
	MeanPastCAGR   float64
	MeanFutureCAGR float64
}

// FindOptimal evaluates every (x, y) pair once and every N against that
// pair's table, returning all combinations ranked by mean future CAGR,
// descending. Results are in-memory only; nothing is persisted. Failed
// combinations are logged and skipped.
func (e *Explorer) FindOptimal(xValues, yValues []float64, nValues []int, today time.Time) []RankedCombination {
	type pairOutcome struct {
		ranked []RankedCombination
	}

	type pair struct{ x, y float64 }

	var pairs []pair
	for _, x := range xValues {
		for _, y := range yValues {
			pairs = append(pairs, pair{x: x, y: y})
		}
	}

	jobs := make(chan pair)
	results := make(chan pairOutcome)

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- pairOutcome{ranked: e.evaluatePair(p.x, p.y, nValues, today)}
			}
		}()
	}

	go func() {
		for _, p := range pairs {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var all []RankedCombination
	for result := range results {
		all = append(all, result.ranked...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].MeanFutureCAGR > all[j].MeanFutureCAGR
	})

	return all
}

func (e *Explorer) evaluatePair(x, y float64, nValues []int, today time.Time) []RankedCombination {
	window, err := PlanWindows(x, y, 0, today)
	if err != nil {
		e.logger.Warn("skipping combination pair",
			zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
		return nil
	}

	opts := e.opts
	opts.Workers = 1
	opts.Logger = e.logger
	a := New(e.store, window, opts)

	var ranked []RankedCombination
	for _, n := range nValues {
		portfolio, err := a.Losers(n)
		if err != nil {
			monitoring.CombinationFailures.Inc()
			e.logger.Warn("combination evaluation failed",
				zap.Float64("x", x), zap.Float64("y", y), zap.Int("n", n), zap.Error(err))
			continue
		}

		var meanPast, meanFuture float64
		count := float64(len(portfolio.Records))
		for _, rec := range portfolio.Records {
			meanPast += rec.PastCAGR / count
			meanFuture += rec.FutureCAGR / count
		}

		ranked = append(ranked, RankedCombination{
			X: x, Y: y, N: n,
			MeanPastCAGR:   meanPast,
			MeanFutureCAGR: meanFuture,
		})
	}
	return ranked
}
