package types

import (
	"math"
	"time"
)

// PriceBar is a single daily row of a symbol's price history file.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day truncates t to midnight UTC. All date comparisons in the analyzer are
// day-granular, so every time.Time entering the pipeline goes through here.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fundamentals is one row of the consolidated stock-info table: a wide
// snapshot of ratios and metrics for a single symbol. Numeric fields default
// to NaN when the source column is blank; use Has to test presence.
type Fundamentals struct {
	Symbol            string
	Name              string
	SectorKey         string
	RecommendationKey string
	ExDividendDate    string
	LastDividendDate  string

	DayHigh            float64
	CurrentPrice       float64
	MarketCap          float64
	MarketCapRank      float64
	ProfitMargins      float64
	OperatingMargins   float64
	GrossMargins       float64
	ReturnOnAssets     float64
	ReturnOnEquity     float64
	DebtToEquity       float64
	QuickRatio         float64
	CurrentRatio       float64
	TotalCash          float64
	TotalCashPerShare  float64
	TotalDebt          float64
	FreeCashflow       float64
	OperatingCashflow  float64
	LastDividendValue  float64
	FiftyTwoWeekLow    float64
	FiftyTwoWeekHigh   float64
	FiftyTwoWeekChange float64
	Beta               float64
	EarningsGrowth     float64
	RevenueGrowth      float64
	TrailingEPS        float64
}

// Has reports whether a numeric fundamentals field carries a real value.
func Has(v float64) bool {
	return !math.IsNaN(v)
}
