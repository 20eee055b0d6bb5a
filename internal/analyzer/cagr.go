package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// daysPerYear is the fixed year-length convention used for CAGR elapsed
// time. Matches the window planner's YearsToDays, deliberately not 365.25.
const daysPerYear = 365.0

// CAGR computes the compound annual growth rate over the bars dated within
// [from, to] inclusive, as a percentage. The first and last bar are selected
// by date order, never by input position, so either stored sort direction
// yields the same result.
//
// Returns ok=false instead of an error for every degenerate case: fewer than
// two bars in range, zero elapsed time, non-positive start price, or a
// non-finite result. These are expected conditions downstream filtering
// handles.
func CAGR(bars []types.PriceBar, from, to time.Time) (float64, bool) {
	from, to = types.Day(from), types.Day(to)

	var inRange []types.PriceBar
	for _, bar := range bars {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		inRange = append(inRange, bar)
	}
	sort.Slice(inRange, func(i, j int) bool { return inRange[i].Date.Before(inRange[j].Date) })

	if len(inRange) < 2 {
		return 0, false
	}

	start := inRange[0]
	end := inRange[len(inRange)-1]

	return rate(start.Close, end.Close, start.Date, end.Date)
}

// rate applies (end/start)^(1/years) − 1 with the 365-day-year convention,
// returning a percentage.
func rate(startPrice, endPrice float64, startDate, endDate time.Time) (float64, bool) {
	years := endDate.Sub(startDate).Hours() / 24 / daysPerYear
	if years <= 0 || startPrice <= 0 {
		return 0, false
	}

	growth := math.Pow(endPrice/startPrice, 1/years)
	if math.IsNaN(growth) || math.IsInf(growth, 0) {
		return 0, false
	}

	return (growth - 1) * 100, true
}

// RangeReader is the slice of the price store the CAGR calculator needs.
type RangeReader interface {
	PriceInRange(symbol string, from, to time.Time) ([]types.PriceBar, error)
}

// CombinedCAGR computes the CAGR of a synthetic portfolio holding one unit
// of each symbol: daily closes are inner-joined on date across all symbols
// that have data in the range, summed into a single total series, and the
// single-series formula applied. Not capital-weighted.
//
// Symbols with no data in the range are left out of the join entirely,
// mirroring how they would be absent from a blended position.
func CombinedCAGR(store RangeReader, symbols []string, from, to time.Time) (float64, bool) {
	type daily struct {
		sum   float64
		count int
	}

	totals := make(map[time.Time]*daily)
	contributing := 0

	for _, symbol := range symbols {
		bars, err := store.PriceInRange(symbol, from, to)
		if err != nil || len(bars) == 0 {
			continue
		}
		contributing++
		for _, bar := range bars {
			d, ok := totals[bar.Date]
			if !ok {
				d = &daily{}
				totals[bar.Date] = d
			}
			d.sum += bar.Close
			d.count++
		}
	}

	if contributing == 0 {
		return 0, false
	}

	// Inner join: keep only dates where every contributing symbol traded.
	var joined []types.PriceBar
	for date, d := range totals {
		if d.count == contributing {
			joined = append(joined, types.PriceBar{Date: date, Close: d.sum})
		}
	}

	return CAGR(joined, from, to)
}
