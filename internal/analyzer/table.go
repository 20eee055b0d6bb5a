package analyzer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/internal/monitoring"
	"github.com/niftylab/stock-analyzer/pkg/types"
)

// PerformanceRecord is one symbol's evaluation against one window. The
// schema is fixed: the window parameters travel as explicit fields, never
// encoded into column names.
type PerformanceRecord struct {
	Symbol string

	X float64
	Y float64
	Z float64

	// PricePastStart is the close at or before the past window's start.
	PricePastStart float64
	// PriceFutureStart is the first close inside the future window — the
	// price the portfolio would have been bought at.
	PriceFutureStart float64
	// PriceCurrent is the last close inside the future window.
	PriceCurrent float64

	PastCAGR   float64
	FutureCAGR float64

	PastStartDate   time.Time
	PastEndDate     time.Time
	FutureStartDate time.Time
	FutureEndDate   time.Time

	EvaluationDate time.Time
	ReferenceDate  time.Time
}

// complete reports whether every numeric field carries a finite value.
func (r PerformanceRecord) complete() bool {
	for _, v := range []float64{r.PricePastStart, r.PriceFutureStart, r.PriceCurrent, r.PastCAGR, r.FutureCAGR} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PerformanceTable is the joined per-symbol result set for one window, one
// record per symbol. Record order is completion order until a selector
// sorts it.
type PerformanceTable struct {
	Window  WindowSpec
	Records []PerformanceRecord
}

// SymbolFailure records one symbol dropped during table construction.
type SymbolFailure struct {
	Symbol string
	Err    error
}

// BuildSummary is the post-run accounting of a table build.
type BuildSummary struct {
	Eligible   int
	Computed   int
	Incomplete int
	Failures   []SymbolFailure
}

// FailureCount returns the number of symbols dropped by errors.
func (s BuildSummary) FailureCount() int {
	return len(s.Failures)
}

// Table returns the performance table for this analyzer's window, building
// it on first access. Per-symbol CAGR computation fans out across a bounded
// worker pool; a failure in one symbol's computation drops that symbol and
// never disturbs its siblings. Fails with EmptyResultError when no symbol
// survives.
func (a *Analyzer) Table() (*PerformanceTable, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.table != nil {
		return a.table, nil
	}

	eligible, err := a.eligibleSymbolsLocked()
	if err != nil {
		return nil, err
	}

	table, summary := a.buildTable(eligible)
	a.summary = &summary

	a.logger.Info("performance table built",
		zap.Int("eligible", summary.Eligible),
		zap.Int("rows", len(table.Records)),
		zap.Int("failures", summary.FailureCount()),
		zap.Int("incomplete", summary.Incomplete))

	if len(table.Records) == 0 {
		return nil, &EmptyResultError{Variant: "performance table", Window: a.window}
	}

	a.table = table
	return table, nil
}

// Summary returns the accounting of the most recent table build.
func (a *Analyzer) Summary() BuildSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.summary == nil {
		return BuildSummary{}
	}
	return *a.summary
}

type symbolResult struct {
	record PerformanceRecord
	err    error
	symbol string
}

func (a *Analyzer) buildTable(symbols []string) (*PerformanceTable, BuildSummary) {
	summary := BuildSummary{Eligible: len(symbols)}

	jobs := make(chan string)
	results := make(chan symbolResult)

	var wg sync.WaitGroup
	for i := 0; i < a.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				record, err := a.evaluateSymbol(symbol)
				results <- symbolResult{record: record, err: err, symbol: symbol}
			}
		}()
	}

	go func() {
		for _, symbol := range symbols {
			jobs <- symbol
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	table := &PerformanceTable{Window: a.window}

	// Fan-in is completion-ordered; selectors re-sort before any
	// positional use.
	for result := range results {
		monitoring.SymbolsEvaluated.Inc()

		if result.err != nil {
			monitoring.SymbolFailures.Inc()
			summary.Failures = append(summary.Failures, SymbolFailure{Symbol: result.symbol, Err: result.err})
			a.logger.Warn("dropping symbol from performance table",
				zap.String("symbol", result.symbol), zap.Error(result.err))
			continue
		}
		if !result.record.complete() {
			summary.Incomplete++
			continue
		}
		summary.Computed++
		table.Records = append(table.Records, result.record)
	}

	return table, summary
}

func (a *Analyzer) evaluateSymbol(symbol string) (PerformanceRecord, error) {
	w := a.window
	var rec PerformanceRecord

	pastCAGR, ok := a.symbolCAGR(symbol, w.PastStart, w.PastEnd)
	if !ok {
		return rec, fmt.Errorf("past window CAGR for %s: %w", symbol, ErrMissingData)
	}
	futureCAGR, ok := a.symbolCAGR(symbol, w.FutureStart, w.FutureEnd)
	if !ok {
		return rec, fmt.Errorf("future window CAGR for %s: %w", symbol, ErrMissingData)
	}

	pastPrice, ok, err := a.store.PriceAtOrBefore(symbol, w.PastStart)
	if err != nil {
		return rec, err
	}
	if !ok {
		return rec, fmt.Errorf("price at past window start for %s: %w", symbol, ErrMissingData)
	}

	futureBars, err := a.store.PriceInRange(symbol, w.FutureStart, w.FutureEnd)
	if err != nil {
		return rec, err
	}
	if len(futureBars) == 0 {
		return rec, fmt.Errorf("no prices in future window for %s: %w", symbol, ErrMissingData)
	}

	rec = PerformanceRecord{
		Symbol:           symbol,
		X:                w.X,
		Y:                w.Y,
		Z:                w.Z,
		PricePastStart:   pastPrice,
		PriceFutureStart: futureBars[0].Close,
		PriceCurrent:     futureBars[len(futureBars)-1].Close,
		PastCAGR:         pastCAGR,
		FutureCAGR:       futureCAGR,
		PastStartDate:    w.PastStart,
		PastEndDate:      w.PastEnd,
		FutureStartDate:  w.FutureStart,
		FutureEndDate:    w.FutureEnd,
		EvaluationDate:   types.Day(time.Now()),
		ReferenceDate:    w.ReferenceDate,
	}
	return rec, nil
}

func (a *Analyzer) symbolCAGR(symbol string, from, to time.Time) (float64, bool) {
	bars, err := a.store.PriceInRange(symbol, from, to)
	if err != nil {
		return 0, false
	}
	return CAGR(bars, from, to)
}
