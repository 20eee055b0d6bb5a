package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStockTable(t *testing.T) *PerformanceTable {
	t.Helper()
	spec, err := PlanWindows(1, 4, 0, day(2024, time.January, 1))
	require.NoError(t, err)

	return &PerformanceTable{
		Window: spec,
		Records: []PerformanceRecord{
			{Symbol: "A", PastCAGR: -10, FutureCAGR: 20, PricePastStart: 100, PriceFutureStart: 70, PriceCurrent: 84},
			{Symbol: "B", PastCAGR: 5, FutureCAGR: 15, PricePastStart: 50, PriceFutureStart: 60, PriceCurrent: 69},
			{Symbol: "C", PastCAGR: 30, FutureCAGR: 25, PricePastStart: 10, PriceFutureStart: 28, PriceCurrent: 35},
		},
	}
}

func TestSelectPortfolioLosers(t *testing.T) {
	table := threeStockTable(t)

	p, err := SelectPortfolio(table, VariantLosers, SortPolicy{PastAscending: true}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.Symbols())
}

func TestSelectPortfolioWinners(t *testing.T) {
	table := threeStockTable(t)

	p, err := SelectPortfolio(table, VariantWinners, SortPolicy{}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, p.Symbols())
}

func TestSelectPortfolioNLargerThanTable(t *testing.T) {
	table := threeStockTable(t)

	p, err := SelectPortfolio(table, VariantLosers, SortPolicy{PastAscending: true}, 10)
	require.NoError(t, err)
	assert.Len(t, p.Records, 3)
}

func TestSelectPortfolioEmptyTable(t *testing.T) {
	spec, err := PlanWindows(1, 4, 0, day(2024, time.January, 1))
	require.NoError(t, err)

	_, err = SelectPortfolio(&PerformanceTable{Window: spec}, VariantWinners, SortPolicy{}, 5)
	var empty *EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, VariantWinners, empty.Variant)
}

func TestRankRecordsTieBreakAndStability(t *testing.T) {
	records := []PerformanceRecord{
		{Symbol: "FIRST", PastCAGR: 10, FutureCAGR: 5},
		{Symbol: "SECOND", PastCAGR: 10, FutureCAGR: 5},
		{Symbol: "BETTER", PastCAGR: 10, FutureCAGR: 8},
	}

	ranked := RankRecords(records, SortPolicy{PastAscending: true, FutureAscending: false})

	// Equal past CAGR: higher future CAGR first, full ties keep input order.
	assert.Equal(t, "BETTER", ranked[0].Symbol)
	assert.Equal(t, "FIRST", ranked[1].Symbol)
	assert.Equal(t, "SECOND", ranked[2].Symbol)
}

func TestRankRecordsDoesNotMutateInput(t *testing.T) {
	records := []PerformanceRecord{
		{Symbol: "Z", PastCAGR: 30},
		{Symbol: "A", PastCAGR: 1},
	}

	RankRecords(records, SortPolicy{PastAscending: true})
	assert.Equal(t, "Z", records[0].Symbol)
}

func TestPortfolioAnalyze(t *testing.T) {
	table := threeStockTable(t)

	p, err := SelectPortfolio(table, VariantLosers, SortPolicy{PastAscending: true}, 2)
	require.NoError(t, err)

	store := newFakeStore()
	spec := table.Window
	store.add("A", dailyBars(spec.PastStart, spec.FutureEnd, growthPrice(100, 10, spec.PastStart)))
	store.add("B", dailyBars(spec.PastStart, spec.FutureEnd, growthPrice(50, 10, spec.PastStart)))

	a := p.Analyze(store)

	assert.InDelta(t, -2.5, a.MeanPastCAGR, 1e-9)
	assert.InDelta(t, 17.5, a.MeanFutureCAGR, 1e-9)
	assert.InDelta(t, 150, a.SumPricePastStart, 1e-9)
	assert.InDelta(t, 130, a.SumPriceFutureStart, 1e-9)
	assert.InDelta(t, 153, a.SumPriceCurrent, 1e-9)

	// (130-150)/150 and (153-130)/130, as percentages.
	assert.InDelta(t, -13.3333, a.AbsoluteReturnPast, 0.001)
	assert.InDelta(t, 17.6923, a.AbsoluteReturnFuture, 0.001)

	require.NotNil(t, a.CombinedPastCAGR)
	require.NotNil(t, a.CombinedFutureCAGR)
	assert.InDelta(t, 10, *a.CombinedPastCAGR, 0.5)
	assert.InDelta(t, 10, *a.CombinedFutureCAGR, 0.5)
}

func TestPortfolioAnalyzeWithoutPriceData(t *testing.T) {
	table := threeStockTable(t)

	p, err := SelectPortfolio(table, VariantLosers, SortPolicy{PastAscending: true}, 2)
	require.NoError(t, err)

	a := p.Analyze(newFakeStore())
	assert.Nil(t, a.CombinedPastCAGR)
	assert.Nil(t, a.CombinedFutureCAGR)
	assert.InDelta(t, -2.5, a.MeanPastCAGR, 1e-9)
}
