package data

import (
	"time"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// SeriesProvider loads a full per-symbol price series from some backing source.
type SeriesProvider interface {
	// LoadSeries loads the complete price history for a symbol,
	// sorted ascending by date and deduplicated by date.
	LoadSeries(symbol string) ([]types.PriceBar, error)

	// HasSeries reports whether a series exists for the symbol at all.
	// A symbol with an existing but empty file has a series; an unknown
	// symbol does not.
	HasSeries(symbol string) bool

	// GetName returns the name of the provider.
	GetName() string
}

// SeriesCache caches loaded price series keyed by symbol.
type SeriesCache interface {
	// Get retrieves a series from cache if available.
	Get(symbol string) ([]types.PriceBar, bool)

	// Set stores a series in cache.
	Set(symbol string, bars []types.PriceBar)

	// Clear removes all cached series.
	Clear()

	// Size returns the number of cached symbols.
	Size() int
}

// CSVColumnMapping defines header names for the price history CSV layout.
type CSVColumnMapping struct {
	DateCol    string
	OpenCol    string
	HighCol    string
	LowCol     string
	CloseCol   string
	VolumeCol  string
	DateFormat string
}

// DefaultCSVFormat matches the layout of the downloaded per-symbol history
// files: Date, Open, High, Low, Close, Volume plus corporate-action columns
// (Dividends, Stock Splits) which the analyzer ignores.
var DefaultCSVFormat = CSVColumnMapping{
	DateCol:    "Date",
	OpenCol:    "Open",
	HighCol:    "High",
	LowCol:     "Low",
	CloseCol:   "Close",
	VolumeCol:  "Volume",
	DateFormat: "2006-01-02",
}

// InvalidRangeError signals a range query whose from-date is after its
// to-date. Always a programming error at the call site.
type InvalidRangeError struct {
	From time.Time
	To   time.Time
}

func (e *InvalidRangeError) Error() string {
	return "invalid date range: from " + e.From.Format("2006-01-02") + " is after to " + e.To.Format("2006-01-02")
}
