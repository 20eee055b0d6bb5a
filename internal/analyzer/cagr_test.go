package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

func bar(date time.Time, close float64) types.PriceBar {
	return types.PriceBar{Date: date, Close: close}
}

func TestCAGRKnownRate(t *testing.T) {
	// 730 days = exactly 2 years under the 365-day convention;
	// 100 -> 144 over 2 years is 20% annually.
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 730)

	bars := []types.PriceBar{bar(start, 100), bar(end, 144)}

	got, ok := CAGR(bars, start, end)
	require.True(t, ok)
	assert.InDelta(t, 20, got, 1e-9)
}

func TestCAGROneCalendarYear(t *testing.T) {
	// 2020 is a leap year, so the elapsed time is 366/365 years and the
	// result lands just under 50%.
	start := day(2020, time.January, 1)
	end := day(2021, time.January, 1)

	bars := []types.PriceBar{bar(start, 100), bar(end, 150)}

	got, ok := CAGR(bars, start, end)
	require.True(t, ok)
	assert.InDelta(t, 50, got, 0.5)
}

func TestCAGRInsufficientBars(t *testing.T) {
	start := day(2020, time.January, 1)
	end := day(2021, time.January, 1)

	_, ok := CAGR(nil, start, end)
	assert.False(t, ok)

	_, ok = CAGR([]types.PriceBar{bar(start, 100)}, start, end)
	assert.False(t, ok)
}

func TestCAGRIgnoresBarsOutsideRange(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 730)

	bars := []types.PriceBar{
		bar(start.AddDate(0, 0, -30), 1),
		bar(start, 100),
		bar(end, 144),
		bar(end.AddDate(0, 0, 30), 9999),
	}

	got, ok := CAGR(bars, start, end)
	require.True(t, ok)
	assert.InDelta(t, 20, got, 1e-9)
}

func TestCAGRInputOrderInvariant(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 730)

	ascending := []types.PriceBar{bar(start, 100), bar(start.AddDate(0, 0, 365), 130), bar(end, 144)}
	descending := []types.PriceBar{bar(end, 144), bar(start.AddDate(0, 0, 365), 130), bar(start, 100)}

	up, okUp := CAGR(ascending, start, end)
	down, okDown := CAGR(descending, start, end)
	require.True(t, okUp)
	require.True(t, okDown)
	assert.Equal(t, up, down)
}

func TestCAGRNonPositiveStartPrice(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 365)

	_, ok := CAGR([]types.PriceBar{bar(start, 0), bar(end, 100)}, start, end)
	assert.False(t, ok)

	_, ok = CAGR([]types.PriceBar{bar(start, -5), bar(end, 100)}, start, end)
	assert.False(t, ok)
}

func TestCAGRSameDayBars(t *testing.T) {
	d := day(2020, time.March, 2)

	_, ok := CAGR([]types.PriceBar{bar(d, 100), bar(d, 110)}, d, d)
	assert.False(t, ok, "zero elapsed time has no defined rate")
}

func TestCAGRDecline(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 365)

	got, ok := CAGR([]types.PriceBar{bar(start, 100), bar(end, 80)}, start, end)
	require.True(t, ok)
	assert.InDelta(t, -20, got, 1e-9)
}

func TestCombinedCAGRInnerJoin(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 730)
	mid := start.AddDate(0, 0, 365)

	store := newFakeStore()
	// Both symbols trade on start and end; only A trades mid. The join
	// keeps start and end, where totals are 100+200 -> 144+288.
	store.add("A", []types.PriceBar{bar(start, 100), bar(mid, 120), bar(end, 144)})
	store.add("B", []types.PriceBar{bar(start, 200), bar(end, 288)})

	got, ok := CombinedCAGR(store, []string{"A", "B"}, start, end)
	require.True(t, ok)
	// 300 -> 432 over 2 years: sqrt(1.44) - 1 = 20%.
	assert.InDelta(t, 20, got, 1e-9)
}

func TestCombinedCAGRSkipsSymbolsWithoutData(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 730)

	store := newFakeStore()
	store.add("A", []types.PriceBar{bar(start, 100), bar(end, 144)})
	store.add("EMPTY", nil)

	got, ok := CombinedCAGR(store, []string{"A", "EMPTY"}, start, end)
	require.True(t, ok)
	assert.InDelta(t, 20, got, 1e-9)
}

func TestCombinedCAGRNoData(t *testing.T) {
	start := day(2019, time.January, 1)
	end := start.AddDate(0, 0, 365)

	store := newFakeStore()
	_, ok := CombinedCAGR(store, []string{"MISSING"}, start, end)
	assert.False(t, ok)
}
