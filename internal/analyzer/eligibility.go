package analyzer

import "go.uber.org/zap"

// EligibleSymbols returns every symbol that may participate in this window's
// analysis: its history must reach back to the past window's start, and its
// price at that date must lie within [MinPrice, MaxPrice].
//
// The scan touches every symbol's history, so the result is memoized for
// the analyzer's lifetime and shared by all downstream queries.
func (a *Analyzer) EligibleSymbols() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eligibleSymbolsLocked()
}

func (a *Analyzer) eligibleSymbolsLocked() ([]string, error) {
	if a.eligible != nil {
		return a.eligible, nil
	}

	symbols, err := a.store.Symbols()
	if err != nil {
		return nil, err
	}

	eligible := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		ok, err := a.isEligible(symbol)
		if err != nil {
			// A broken history file disqualifies the symbol, nothing more.
			a.logger.Warn("skipping symbol with unreadable history",
				zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		if ok {
			eligible = append(eligible, symbol)
		}
	}

	a.logger.Info("eligibility filter complete",
		zap.Int("universe", len(symbols)),
		zap.Int("eligible", len(eligible)),
		zap.Float64("min_price", a.opts.MinPrice),
		zap.Float64("max_price", a.opts.MaxPrice))

	a.eligible = eligible
	return eligible, nil
}

func (a *Analyzer) isEligible(symbol string) (bool, error) {
	oldest, ok, err := a.store.OldestDate(symbol)
	if err != nil {
		return false, err
	}
	if !ok || oldest.After(a.window.PastStart) {
		return false, nil
	}

	price, ok, err := a.store.PriceAtOrBefore(symbol, a.window.PastStart)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return a.opts.MinPrice <= price && price <= a.opts.MaxPrice, nil
}
