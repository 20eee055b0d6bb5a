// Package analyzer implements the performance-window portfolio pipeline:
// plan a pair of past/future calendar windows, compute per-symbol CAGR over
// each concurrently, and rank the resulting table into named portfolios.
package analyzer

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// PriceStore is the read side of the price history store the analyzer
// consumes. *data.HistoryStore satisfies it.
type PriceStore interface {
	Symbols() ([]string, error)
	PriceInRange(symbol string, from, to time.Time) ([]types.PriceBar, error)
	PriceAtOrBefore(symbol string, date time.Time) (float64, bool, error)
	OldestDate(symbol string) (time.Time, bool, error)
	LatestDate(symbol string) (time.Time, bool, error)
}

// Options tunes one Analyzer instance.
type Options struct {
	// MinPrice and MaxPrice bound the price band a symbol must trade in at
	// the past window's start to be eligible. Zero MaxPrice means unbounded.
	MinPrice float64
	MaxPrice float64

	// Workers bounds the per-symbol fan-out. Defaults to runtime.NumCPU().
	Workers int

	Logger *zap.Logger
}

// DefaultMaxPrice is the effectively-unbounded upper price band.
const DefaultMaxPrice = 1e7

func (o *Options) normalize() {
	if o.MaxPrice <= 0 {
		o.MaxPrice = DefaultMaxPrice
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Analyzer evaluates one WindowSpec over the symbol universe. Eligibility
// and the performance table are computed lazily on first use and memoized
// for the instance's lifetime; a fresh Analyzer is needed for a fresh
// evaluation.
type Analyzer struct {
	store  PriceStore
	window WindowSpec
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	eligible []string
	table    *PerformanceTable
	summary  *BuildSummary
}

// New creates an Analyzer for one window over the given store.
func New(store PriceStore, window WindowSpec, opts Options) *Analyzer {
	opts.normalize()
	return &Analyzer{
		store:  store,
		window: window,
		opts:   opts,
		logger: opts.Logger,
	}
}

// Window returns the window this analyzer evaluates.
func (a *Analyzer) Window() WindowSpec {
	return a.window
}
