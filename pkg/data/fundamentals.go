package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// FundamentalsTable is the consolidated stock-info table: one wide row per
// symbol, loaded once from the all-stocks CSV.
type FundamentalsTable struct {
	Rows     []types.Fundamentals
	bySymbol map[string]int
}

// LoadFundamentals reads the consolidated fundamentals CSV. Blank or
// unparsable numeric cells become NaN rather than failing the load; rows
// without a symbol are skipped.
func LoadFundamentals(path string) (*FundamentalsTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fundamentals: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read fundamentals header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	table := &FundamentalsTable{bySymbol: make(map[string]int)}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read fundamentals: %w", err)
		}

		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		num := func(name string) float64 {
			v, err := strconv.ParseFloat(cell(name), 64)
			if err != nil {
				return math.NaN()
			}
			return v
		}

		row := types.Fundamentals{
			Symbol:             cell("symbol"),
			Name:               cell("name_of_company"),
			SectorKey:          cell("sector_key"),
			RecommendationKey:  cell("recommendation_key"),
			ExDividendDate:     cell("ex_dividend_date"),
			LastDividendDate:   cell("last_dividend_date"),
			DayHigh:            num("day_high"),
			CurrentPrice:       num("current_price"),
			MarketCap:          num("market_cap"),
			MarketCapRank:      num("market_cap_rank"),
			ProfitMargins:      num("profit_margins"),
			OperatingMargins:   num("operating_margins"),
			GrossMargins:       num("gross_margins"),
			ReturnOnAssets:     num("return_on_assets"),
			ReturnOnEquity:     num("return_on_equity"),
			DebtToEquity:       num("debt_to_equity"),
			QuickRatio:         num("quick_ratio"),
			CurrentRatio:       num("current_ratio"),
			TotalCash:          num("total_cash"),
			TotalCashPerShare:  num("total_cash_per_share"),
			TotalDebt:          num("total_debt"),
			FreeCashflow:       num("free_cashflow"),
			OperatingCashflow:  num("operating_cashflow"),
			LastDividendValue:  num("last_dividend_value"),
			FiftyTwoWeekLow:    num("fifty_two_week_low"),
			FiftyTwoWeekHigh:   num("fifty_two_week_high"),
			FiftyTwoWeekChange: num("52_week_change"),
			Beta:               num("beta"),
			EarningsGrowth:     num("earnings_growth"),
			RevenueGrowth:      num("revenue_growth"),
			TrailingEPS:        num("trailing_eps"),
		}
		if row.Symbol == "" {
			continue
		}
		if _, dup := table.bySymbol[row.Symbol]; dup {
			continue
		}
		table.bySymbol[row.Symbol] = len(table.Rows)
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Lookup returns the fundamentals row for a symbol.
func (t *FundamentalsTable) Lookup(symbol string) (types.Fundamentals, bool) {
	i, ok := t.bySymbol[symbol]
	if !ok {
		return types.Fundamentals{}, false
	}
	return t.Rows[i], true
}

// Symbols lists all symbols in the table, in file order.
func (t *FundamentalsTable) Symbols() []string {
	symbols := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		symbols[i] = row.Symbol
	}
	return symbols
}
