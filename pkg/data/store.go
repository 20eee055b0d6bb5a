package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/internal/monitoring"
	"github.com/niftylab/stock-analyzer/pkg/types"
)

// MemoryCache implements SeriesCache with in-memory storage. Loads are
// idempotent, so racing Set calls for the same symbol are harmless.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string][]types.PriceBar
}

// NewMemoryCache creates an empty in-memory series cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: make(map[string][]types.PriceBar)}
}

// Get retrieves a series from cache if available.
func (c *MemoryCache) Get(symbol string) ([]types.PriceBar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bars, ok := c.cache[symbol]
	return bars, ok
}

// Set stores a series in cache.
func (c *MemoryCache) Set(symbol string, bars []types.PriceBar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[symbol] = bars
}

// Clear removes all cached series.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]types.PriceBar)
}

// Size returns the number of cached symbols.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// HistoryStore answers point-in-time and range queries against per-symbol
// price histories, loading each symbol's series at most once per store
// lifetime. The cache is an explicit collaborator with a lifetime tied to
// the store; it is never invalidated except by Clear.
//
// Cached series are treated as immutable: callers must not modify returned
// slices.
type HistoryStore struct {
	provider   SeriesProvider
	cache      SeriesCache
	equityPath string
	logger     *zap.Logger
}

// NewHistoryStore creates a history store over the given provider, with its
// symbol universe read from the equity master file.
func NewHistoryStore(provider SeriesProvider, equityPath string, logger *zap.Logger) *HistoryStore {
	return NewHistoryStoreWithCache(provider, NewMemoryCache(), equityPath, logger)
}

// NewHistoryStoreWithCache creates a history store with a caller-supplied cache.
func NewHistoryStoreWithCache(provider SeriesProvider, cache SeriesCache, equityPath string, logger *zap.Logger) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryStore{provider: provider, cache: cache, equityPath: equityPath, logger: logger}
}

// Symbols lists the full symbol universe from the equity master file,
// deduplicated, in file order.
func (s *HistoryStore) Symbols() ([]string, error) {
	file, err := os.Open(s.equityPath)
	if err != nil {
		return nil, fmt.Errorf("open equity master: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read equity master header: %w", err)
	}

	symbolCol := -1
	for i, h := range header {
		if h == "SYMBOL" || h == "symbol" || h == "Symbol" {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, fmt.Errorf("equity master %s has no symbol column", s.equityPath)
	}

	seen := make(map[string]bool)
	var symbols []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read equity master: %w", err)
		}
		if symbolCol >= len(record) {
			continue
		}
		sym := record[symbolCol]
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}

	return symbols, nil
}

// HasHistory reports whether any price history exists for the symbol.
func (s *HistoryStore) HasHistory(symbol string) bool {
	if _, ok := s.cache.Get(symbol); ok {
		return true
	}
	return s.provider.HasSeries(symbol)
}

// PriceSeries returns a symbol's full price series, ascending by date.
// The first access per symbol reads the backing file; subsequent accesses
// are served from memory. An existing but empty history yields an empty,
// non-nil series; an unknown symbol yields an error.
func (s *HistoryStore) PriceSeries(symbol string) ([]types.PriceBar, error) {
	if bars, ok := s.cache.Get(symbol); ok {
		return bars, nil
	}

	bars, err := s.provider.LoadSeries(symbol)
	if err != nil {
		return nil, err
	}
	if bars == nil {
		bars = []types.PriceBar{}
	}

	// Racing loads of the same symbol produce identical series, so the
	// last writer winning is safe.
	s.cache.Set(symbol, bars)
	monitoring.HistoryLoads.Inc()
	s.logger.Debug("loaded price history",
		zap.String("symbol", symbol), zap.Int("bars", len(bars)))

	return bars, nil
}

// PriceInRange returns the subsequence of a symbol's series with
// from ≤ date ≤ to, sorted ascending by date. Supplying from > to is a
// caller bug and fails with InvalidRangeError.
func (s *HistoryStore) PriceInRange(symbol string, from, to time.Time) ([]types.PriceBar, error) {
	from, to = types.Day(from), types.Day(to)
	if from.After(to) {
		return nil, &InvalidRangeError{From: from, To: to}
	}

	bars, err := s.PriceSeries(symbol)
	if err != nil {
		return nil, err
	}

	var result []types.PriceBar
	for _, bar := range bars {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		result = append(result, bar)
	}
	return result, nil
}

// PriceAtOrBefore returns the close of the latest bar dated at or before the
// given date. Absence of such a bar is an expected condition, not an error:
// eligibility filtering probes dates before many symbols' listing.
func (s *HistoryStore) PriceAtOrBefore(symbol string, date time.Time) (float64, bool, error) {
	date = types.Day(date)

	bars, err := s.PriceSeries(symbol)
	if err != nil {
		return 0, false, err
	}

	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Date.After(date) {
			return bars[i].Close, true, nil
		}
	}
	return 0, false, nil
}

// OldestDate returns the earliest date in a symbol's history, if any.
func (s *HistoryStore) OldestDate(symbol string) (time.Time, bool, error) {
	bars, err := s.PriceSeries(symbol)
	if err != nil || len(bars) == 0 {
		return time.Time{}, false, err
	}
	return bars[0].Date, true, nil
}

// LatestDate returns the most recent date in a symbol's history, if any.
func (s *HistoryStore) LatestDate(symbol string) (time.Time, bool, error) {
	bars, err := s.PriceSeries(symbol)
	if err != nil || len(bars) == 0 {
		return time.Time{}, false, err
	}
	return bars[len(bars)-1].Date, true, nil
}

// LatestPrice returns the most recent close in a symbol's history, if any.
func (s *HistoryStore) LatestPrice(symbol string) (float64, bool, error) {
	bars, err := s.PriceSeries(symbol)
	if err != nil || len(bars) == 0 {
		return 0, false, err
	}
	return bars[len(bars)-1].Close, true, nil
}

// Clear drops every cached series. Intended for test isolation.
func (s *HistoryStore) Clear() {
	s.cache.Clear()
}

// CacheSize returns the number of cached symbols.
func (s *HistoryStore) CacheSize() int {
	return s.cache.Size()
}
