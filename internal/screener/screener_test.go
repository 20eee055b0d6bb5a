package screener

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niftylab/stock-analyzer/pkg/data"
	"github.com/niftylab/stock-analyzer/pkg/types"
)

func tableOf(rows ...types.Fundamentals) *data.FundamentalsTable {
	return &data.FundamentalsTable{Rows: rows}
}

func symbolsOf(rows []types.Fundamentals) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Symbol
	}
	return out
}

func TestDefensive(t *testing.T) {
	nan := math.NaN()
	table := tableOf(
		types.Fundamentals{
			Symbol: "UTIL", SectorKey: "utilities",
			CurrentPrice: 52, FiftyTwoWeekLow: 50, FiftyTwoWeekHigh: 100,
			FiftyTwoWeekChange: 0.05, Beta: 0.7,
		},
		// Right sector but trading near its high.
		types.Fundamentals{
			Symbol: "HIGH", SectorKey: "healthcare",
			CurrentPrice: 95, FiftyTwoWeekLow: 50, FiftyTwoWeekHigh: 100,
			FiftyTwoWeekChange: 0.05, Beta: 0.7,
		},
		// Wrong sector.
		types.Fundamentals{
			Symbol: "TECH", SectorKey: "technology",
			CurrentPrice: 52, FiftyTwoWeekLow: 50, FiftyTwoWeekHigh: 100,
			FiftyTwoWeekChange: 0.05, Beta: 0.7,
		},
		// Too volatile.
		types.Fundamentals{
			Symbol: "WILD", SectorKey: "utilities",
			CurrentPrice: 52, FiftyTwoWeekLow: 50, FiftyTwoWeekHigh: 100,
			FiftyTwoWeekChange: 0.05, Beta: 1.5,
		},
		// Missing data never passes a comparison.
		types.Fundamentals{
			Symbol: "BLANK", SectorKey: "utilities",
			CurrentPrice: nan, FiftyTwoWeekLow: nan, FiftyTwoWeekHigh: nan,
			FiftyTwoWeekChange: nan, Beta: nan,
		},
	)

	got := New(table).Defensive(DefaultDefensiveOptions())
	assert.Equal(t, []string{"UTIL"}, symbolsOf(got))
}

func TestConsistentGrowth(t *testing.T) {
	table := tableOf(
		types.Fundamentals{Symbol: "GROW", EarningsGrowth: 0.2, RevenueGrowth: 0.1, TrailingEPS: 5, Beta: 0.9},
		types.Fundamentals{Symbol: "SHRINK", EarningsGrowth: -0.1, RevenueGrowth: 0.1, TrailingEPS: 5, Beta: 0.9},
		types.Fundamentals{Symbol: "LOSSY", EarningsGrowth: 0.2, RevenueGrowth: 0.1, TrailingEPS: -1, Beta: 0.9},
		types.Fundamentals{Symbol: "WILD", EarningsGrowth: 0.2, RevenueGrowth: 0.1, TrailingEPS: 5, Beta: 1.3},
	)

	got := New(table).ConsistentGrowth(DefaultGrowthOptions())
	assert.Equal(t, []string{"GROW"}, symbolsOf(got))
}

func TestDividendPayers(t *testing.T) {
	table := tableOf(
		types.Fundamentals{Symbol: "YIELD", LastDividendValue: 5, CurrentPrice: 100, ExDividendDate: "2023-06-01", LastDividendDate: "2023-06-15"},
		// Yield below the 3% floor.
		types.Fundamentals{Symbol: "THIN", LastDividendValue: 1, CurrentPrice: 100, ExDividendDate: "2023-06-01", LastDividendDate: "2023-06-15"},
		// No dividend dates on record.
		types.Fundamentals{Symbol: "NODATE", LastDividendValue: 5, CurrentPrice: 100},
		types.Fundamentals{Symbol: "NONE", LastDividendValue: 0, CurrentPrice: 100, ExDividendDate: "2023-06-01", LastDividendDate: "2023-06-15"},
	)

	got := New(table).DividendPayers()
	assert.Equal(t, []string{"YIELD"}, symbolsOf(got))
}

func TestStrongFinancialHealth(t *testing.T) {
	mk := func(symbol string, quick, current, cash, debt, fcf, ocf, dayHigh float64) types.Fundamentals {
		return types.Fundamentals{
			Symbol: symbol, QuickRatio: quick, CurrentRatio: current,
			TotalCash: cash, TotalDebt: debt,
			FreeCashflow: fcf, OperatingCashflow: ocf, DayHigh: dayHigh,
		}
	}

	table := tableOf(
		mk("RICH", 2, 2, 2000, 10, 50, 50, 200),
		mk("OKAY", 2, 2, 100, 100, 50, 50, 100),
		mk("POOR", 2, 2, 10, 1000, 50, 50, 50),
		// Fails the liquidity gate outright.
		mk("TIGHT", 0.5, 0.8, 1000, 10, 50, 50, 10),
		// Decent ratio but burning cash.
		mk("BURN", 2, 2, 1000, 10, -5, 50, 10),
	)

	// The 0.8 quantile over the four surviving cash-to-debt ratios only
	// lets the top one through.
	got := New(table).StrongFinancialHealth(DefaultFinancialHealthOptions())
	assert.Equal(t, []string{"RICH"}, symbolsOf(got))
}

func TestEstablishedProfitable(t *testing.T) {
	mk := func(symbol string, rank, roa, roe, de float64, exDiv string, lastDiv float64) types.Fundamentals {
		return types.Fundamentals{
			Symbol: symbol, MarketCapRank: rank,
			ProfitMargins: 0.1, OperatingMargins: 0.1, GrossMargins: 0.2,
			ReturnOnAssets: roa, ReturnOnEquity: roe, DebtToEquity: de,
			ExDividendDate: exDiv, LastDividendValue: lastDiv,
		}
	}

	table := tableOf(
		mk("BEST", 10, 0.40, 0.40, 10, "2023-06-01", 3),
		mk("GOOD", 20, 0.30, 0.30, 80, "2023-06-01", 3),
		mk("MID", 30, 0.20, 0.20, 50, "2023-06-01", 3),
		mk("LOW", 40, 0.10, 0.10, 60, "2023-06-01", 3),
		// Out of the large-cap universe entirely.
		mk("SMALL", 900, 0.50, 0.50, 1, "2023-06-01", 3),
	)

	// Median cut on the return ratios keeps BEST and GOOD; the
	// debt-to-equity quantile over those two then drops GOOD.
	got := New(table).EstablishedProfitable(EstablishedProfitableOptions{
		MaxMarketCapRank: 500,
		TopROAFraction:   0.5,
		TopROEFraction:   0.5,
		BottomDebtEquity: 0.75,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "BEST", got[0].Symbol)
}

func TestEstablishedProfitableRequiresDividendHistory(t *testing.T) {
	nan := math.NaN()
	row := types.Fundamentals{
		Symbol: "NODIV", MarketCapRank: 10,
		ProfitMargins: 0.1, OperatingMargins: 0.1, GrossMargins: 0.2,
		ReturnOnAssets: 0.30, ReturnOnEquity: 0.40, DebtToEquity: 5,
		LastDividendValue: nan,
	}

	got := New(tableOf(row)).EstablishedProfitable(DefaultEstablishedProfitableOptions())
	assert.Empty(t, got)
}
