// Package screener filters the fundamentals table down to conservative
// stock candidates. Each screen is an independent predicate chain; relative
// thresholds (top-quartile return ratios, bottom-quartile leverage) are
// quantiles computed over the rows surviving the preceding steps.
package screener

import (
	"math"
	"sort"

	"github.com/niftylab/stock-analyzer/pkg/data"
	"github.com/niftylab/stock-analyzer/pkg/types"
)

// Screener runs screens against a loaded fundamentals table.
type Screener struct {
	table *data.FundamentalsTable
}

// New creates a screener over the fundamentals table.
func New(table *data.FundamentalsTable) *Screener {
	return &Screener{table: table}
}

// EstablishedProfitableOptions parameterizes EstablishedProfitable.
type EstablishedProfitableOptions struct {
	MaxMarketCapRank float64
	TopROAFraction   float64
	TopROEFraction   float64
	BottomDebtEquity float64
}

// DefaultEstablishedProfitableOptions returns the standard thresholds.
func DefaultEstablishedProfitableOptions() EstablishedProfitableOptions {
	return EstablishedProfitableOptions{
		MaxMarketCapRank: 500,
		TopROAFraction:   0.25,
		TopROEFraction:   0.25,
		BottomDebtEquity: 0.25,
	}
}

// EstablishedProfitable selects large-cap companies with positive margins,
// top-fraction return ratios, bottom-fraction leverage, and a dividend
// history.
func (s *Screener) EstablishedProfitable(opts EstablishedProfitableOptions) []types.Fundamentals {
	rows := filter(s.table.Rows, func(f types.Fundamentals) bool {
		return types.Has(f.MarketCapRank) && f.MarketCapRank < opts.MaxMarketCapRank &&
			f.ProfitMargins > 0 && f.OperatingMargins > 0 && f.GrossMargins > 0
	})

	roaThreshold := quantile(values(rows, func(f types.Fundamentals) float64 { return f.ReturnOnAssets }), 1-opts.TopROAFraction)
	roeThreshold := quantile(values(rows, func(f types.Fundamentals) float64 { return f.ReturnOnEquity }), 1-opts.TopROEFraction)
	rows = filter(rows, func(f types.Fundamentals) bool {
		return f.ReturnOnAssets > roaThreshold && f.ReturnOnEquity > roeThreshold
	})

	debtThreshold := quantile(values(rows, func(f types.Fundamentals) float64 { return f.DebtToEquity }), opts.BottomDebtEquity)
	rows = filter(rows, func(f types.Fundamentals) bool {
		return types.Has(f.DebtToEquity) && f.DebtToEquity < debtThreshold
	})

	return filter(rows, func(f types.Fundamentals) bool {
		return f.ExDividendDate != "" && types.Has(f.LastDividendValue)
	})
}

// FinancialHealthOptions parameterizes StrongFinancialHealth.
type FinancialHealthOptions struct {
	MinQuickRatio        float64
	MinCurrentRatio      float64
	CashToDebtQuantile   float64
	MinFreeCashflow      float64
	MinOperatingCashflow float64
}

// DefaultFinancialHealthOptions returns the standard thresholds.
func DefaultFinancialHealthOptions() FinancialHealthOptions {
	return FinancialHealthOptions{
		MinQuickRatio:      1,
		MinCurrentRatio:    1,
		CashToDebtQuantile: 0.8,
	}
}

// StrongFinancialHealth selects liquid companies whose cash position ranks
// in the top tail relative to debt and whose cashflows are positive. The
// result is sorted ascending by day high.
func (s *Screener) StrongFinancialHealth(opts FinancialHealthOptions) []types.Fundamentals {
	rows := filter(s.table.Rows, func(f types.Fundamentals) bool {
		return f.QuickRatio > opts.MinQuickRatio && f.CurrentRatio > opts.MinCurrentRatio
	})

	cashToDebt := func(f types.Fundamentals) float64 { return f.TotalCash / f.TotalDebt }
	threshold := quantile(values(rows, cashToDebt), opts.CashToDebtQuantile)
	rows = filter(rows, func(f types.Fundamentals) bool {
		ratio := cashToDebt(f)
		return !math.IsNaN(ratio) && ratio > threshold
	})

	rows = filter(rows, func(f types.Fundamentals) bool {
		return f.FreeCashflow > opts.MinFreeCashflow && f.OperatingCashflow > opts.MinOperatingCashflow
	})

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DayHigh < rows[j].DayHigh })
	return rows
}

// DefensiveOptions parameterizes Defensive.
type DefensiveOptions struct {
	Sectors         []string
	ClosenessToLow  float64
	MaxBeta         float64
	MinYearlyChange float64
}

// DefaultDefensiveOptions returns the standard thresholds.
func DefaultDefensiveOptions() DefensiveOptions {
	return DefensiveOptions{
		Sectors:        []string{"consumer-cyclical", "utilities", "healthcare", "consumer-defensive"},
		ClosenessToLow: 0.30,
		MaxBeta:        1,
	}
}

// Defensive selects low-beta stocks in defensive sectors trading near their
// 52-week low with a positive yearly change.
func (s *Screener) Defensive(opts DefensiveOptions) []types.Fundamentals {
	sectors := make(map[string]bool, len(opts.Sectors))
	for _, sector := range opts.Sectors {
		sectors[sector] = true
	}

	return filter(s.table.Rows, func(f types.Fundamentals) bool {
		if !sectors[f.SectorKey] {
			return false
		}
		ceiling := f.FiftyTwoWeekLow + (f.FiftyTwoWeekHigh-f.FiftyTwoWeekLow)*opts.ClosenessToLow
		return f.CurrentPrice <= ceiling &&
			f.FiftyTwoWeekChange > opts.MinYearlyChange &&
			f.Beta < opts.MaxBeta
	})
}

// GrowthOptions parameterizes ConsistentGrowth.
type GrowthOptions struct {
	MinEarningsGrowth float64
	MinRevenueGrowth  float64
	MinTrailingEPS    float64
	MaxBeta           float64
}

// DefaultGrowthOptions returns the standard thresholds.
func DefaultGrowthOptions() GrowthOptions {
	return GrowthOptions{MaxBeta: 1}
}

// ConsistentGrowth selects low-beta stocks with positive earnings growth,
// revenue growth, and trailing EPS.
func (s *Screener) ConsistentGrowth(opts GrowthOptions) []types.Fundamentals {
	return filter(s.table.Rows, func(f types.Fundamentals) bool {
		return f.EarningsGrowth > opts.MinEarningsGrowth &&
			f.RevenueGrowth > opts.MinRevenueGrowth &&
			f.TrailingEPS > opts.MinTrailingEPS &&
			f.Beta < opts.MaxBeta
	})
}

// MinDividendYield is the yield floor for DividendPayers.
const MinDividendYield = 0.03

// DividendPayers selects stocks with an actual dividend stream: a positive
// last dividend yielding above the floor and both dividend dates on record.
func (s *Screener) DividendPayers() []types.Fundamentals {
	return filter(s.table.Rows, func(f types.Fundamentals) bool {
		return f.LastDividendValue > 0 &&
			f.LastDividendValue/f.CurrentPrice > MinDividendYield &&
			f.ExDividendDate != "" &&
			f.LastDividendDate != ""
	})
}

func filter(rows []types.Fundamentals, keep func(types.Fundamentals) bool) []types.Fundamentals {
	var out []types.Fundamentals
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func values(rows []types.Fundamentals, pick func(types.Fundamentals) float64) []float64 {
	var out []float64
	for _, row := range rows {
		if v := pick(row); types.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile returns the q-th linearly interpolated quantile of vals, NaN for
// an empty input. NaNs must be stripped by the caller.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
