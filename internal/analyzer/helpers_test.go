package analyzer

import (
	"math"
	"time"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// fakeStore is an in-memory PriceStore for tests.
type fakeStore struct {
	symbols []string
	series  map[string][]types.PriceBar
	errs    map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		series: make(map[string][]types.PriceBar),
		errs:   make(map[string]error),
	}
}

func (s *fakeStore) add(symbol string, bars []types.PriceBar) {
	s.symbols = append(s.symbols, symbol)
	s.series[symbol] = bars
}

func (s *fakeStore) Symbols() ([]string, error) {
	return s.symbols, nil
}

func (s *fakeStore) PriceInRange(symbol string, from, to time.Time) ([]types.PriceBar, error) {
	if err := s.errs[symbol]; err != nil {
		return nil, err
	}
	from, to = types.Day(from), types.Day(to)
	var out []types.PriceBar
	for _, bar := range s.series[symbol] {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		out = append(out, bar)
	}
	return out, nil
}

func (s *fakeStore) PriceAtOrBefore(symbol string, date time.Time) (float64, bool, error) {
	if err := s.errs[symbol]; err != nil {
		return 0, false, err
	}
	date = types.Day(date)
	bars := s.series[symbol]
	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Date.After(date) {
			return bars[i].Close, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStore) OldestDate(symbol string) (time.Time, bool, error) {
	if err := s.errs[symbol]; err != nil {
		return time.Time{}, false, err
	}
	bars := s.series[symbol]
	if len(bars) == 0 {
		return time.Time{}, false, nil
	}
	return bars[0].Date, true, nil
}

func (s *fakeStore) LatestDate(symbol string) (time.Time, bool, error) {
	bars := s.series[symbol]
	if len(bars) == 0 {
		return time.Time{}, false, nil
	}
	return bars[len(bars)-1].Date, true, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dailyBars generates one bar per day over [start, end] with closes from the
// price function.
func dailyBars(start, end time.Time, price func(t time.Time) float64) []types.PriceBar {
	var bars []types.PriceBar
	for d := types.Day(start); !d.After(types.Day(end)); d = d.AddDate(0, 0, 1) {
		p := price(d)
		bars = append(bars, types.PriceBar{Date: d, Open: p, High: p, Low: p, Close: p, Volume: 1000})
	}
	return bars
}

// growthPrice returns a price function compounding annualRate (percent per
// 365-day year) from base at start.
func growthPrice(base, annualRate float64, start time.Time) func(t time.Time) float64 {
	return func(t time.Time) float64 {
		years := t.Sub(start).Hours() / 24 / 365
		return base * math.Pow(1+annualRate/100, years)
	}
}
