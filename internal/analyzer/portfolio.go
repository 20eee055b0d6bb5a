package analyzer

import (
	"sort"
)

// Portfolio variant names.
const (
	VariantLosers  = "losers"
	VariantWinners = "winners"
	VariantPenny   = "penny"
)

// Portfolio is a top-N selection from a performance table under a sort
// policy, never mutated after creation.
type Portfolio struct {
	Variant string
	Window  WindowSpec
	Records []PerformanceRecord
}

// SortPolicy gives the per-key sort direction for the two ranking keys.
// The primary key is past CAGR, the secondary future CAGR; ties on both
// keys keep their pre-sort relative order (stable sort).
type SortPolicy struct {
	PastAscending   bool
	FutureAscending bool
}

// Losers selects the n worst past performers, rebounds first: past CAGR
// ascending, ties broken by future CAGR descending.
func (a *Analyzer) Losers(n int) (*Portfolio, error) {
	return a.selectPortfolio(VariantLosers, SortPolicy{PastAscending: true, FutureAscending: false}, n)
}

// Winners selects the n best past performers: past CAGR descending, ties
// broken by future CAGR descending.
func (a *Analyzer) Winners(n int) (*Portfolio, error) {
	return a.selectPortfolio(VariantWinners, SortPolicy{PastAscending: false, FutureAscending: false}, n)
}

// Penny selects n stocks from a price-band-restricted universe. The band
// itself is applied upstream by the eligibility filter; the selection
// mirrors the winners' ordering.
func (a *Analyzer) Penny(n int) (*Portfolio, error) {
	return a.selectPortfolio(VariantPenny, SortPolicy{PastAscending: false, FutureAscending: false}, n)
}

func (a *Analyzer) selectPortfolio(variant string, policy SortPolicy, n int) (*Portfolio, error) {
	table, err := a.Table()
	if err != nil {
		if empty, ok := err.(*EmptyResultError); ok {
			return nil, &EmptyResultError{Variant: variant, Window: empty.Window}
		}
		return nil, err
	}
	return SelectPortfolio(table, variant, policy, n)
}

// SelectPortfolio ranks a performance table under the given policy and
// takes the top n rows. Exposed separately so cached tables can be ranked
// without an Analyzer.
func SelectPortfolio(table *PerformanceTable, variant string, policy SortPolicy, n int) (*Portfolio, error) {
	if len(table.Records) == 0 {
		return nil, &EmptyResultError{Variant: variant, Window: table.Window}
	}

	ranked := RankRecords(table.Records, policy)
	if n < len(ranked) {
		ranked = ranked[:n]
	}

	return &Portfolio{Variant: variant, Window: table.Window, Records: ranked}, nil
}

// RankRecords returns a sorted copy of records under the policy, leaving
// the input untouched.
func RankRecords(records []PerformanceRecord, policy SortPolicy) []PerformanceRecord {
	ranked := make([]PerformanceRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PastCAGR != b.PastCAGR {
			if policy.PastAscending {
				return a.PastCAGR < b.PastCAGR
			}
			return a.PastCAGR > b.PastCAGR
		}
		if a.FutureCAGR != b.FutureCAGR {
			if policy.FutureAscending {
				return a.FutureCAGR < b.FutureCAGR
			}
			return a.FutureCAGR > b.FutureCAGR
		}
		return false
	})

	return ranked
}

// Symbols lists the selected symbols in rank order.
func (p *Portfolio) Symbols() []string {
	symbols := make([]string, len(p.Records))
	for i, rec := range p.Records {
		symbols[i] = rec.Symbol
	}
	return symbols
}

// Analysis holds portfolio-level aggregate statistics. The combined CAGRs
// treat the selection as a single blended position holding one unit of each
// symbol; they are absent (nil) when no joined price data exists for the
// window.
type Analysis struct {
	MeanPastCAGR   float64
	MeanFutureCAGR float64

	CombinedPastCAGR   *float64
	CombinedFutureCAGR *float64

	// Absolute returns from summed entry and exit prices, as percentages.
	AbsoluteReturnPast   float64
	AbsoluteReturnFuture float64

	SumPricePastStart   float64
	SumPriceFutureStart float64
	SumPriceCurrent     float64
}

// Analyze computes the aggregate statistics for the selection. The store is
// needed to re-read daily closes for the combined-CAGR inner join.
func (p *Portfolio) Analyze(store RangeReader) Analysis {
	var result Analysis

	n := float64(len(p.Records))
	for _, rec := range p.Records {
		result.MeanPastCAGR += rec.PastCAGR / n
		result.MeanFutureCAGR += rec.FutureCAGR / n
		result.SumPricePastStart += rec.PricePastStart
		result.SumPriceFutureStart += rec.PriceFutureStart
		result.SumPriceCurrent += rec.PriceCurrent
	}

	if result.SumPricePastStart > 0 {
		result.AbsoluteReturnPast = (result.SumPriceFutureStart - result.SumPricePastStart) / result.SumPricePastStart * 100
	}
	if result.SumPriceFutureStart > 0 {
		result.AbsoluteReturnFuture = (result.SumPriceCurrent - result.SumPriceFutureStart) / result.SumPriceFutureStart * 100
	}

	symbols := p.Symbols()
	if cagr, ok := CombinedCAGR(store, symbols, p.Window.PastStart, p.Window.PastEnd); ok {
		result.CombinedPastCAGR = &cagr
	}
	if cagr, ok := CombinedCAGR(store, symbols, p.Window.FutureStart, p.Window.FutureEnd); ok {
		result.CombinedFutureCAGR = &cagr
	}

	return result
}
