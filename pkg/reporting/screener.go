package reporting

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

var screenHeader = []string{
	"symbol", "name", "sector", "current_price", "market_cap",
	"return_on_assets", "return_on_equity", "debt_to_equity", "beta",
}

// WriteScreenCSV writes one screen's surviving rows to path.
func WriteScreenCSV(rows []types.Fundamentals, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(screenHeader); err != nil {
		return err
	}

	num := func(v float64) string {
		if !types.Has(v) {
			return ""
		}
		return fmt.Sprintf("%g", v)
	}

	for _, row := range rows {
		record := []string{
			row.Symbol, row.Name, row.SectorKey,
			num(row.CurrentPrice), num(row.MarketCap),
			num(row.ReturnOnAssets), num(row.ReturnOnEquity),
			num(row.DebtToEquity), num(row.Beta),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// PrintScreen renders one screen's surviving rows to the console.
func PrintScreen(title string, rows []types.Fundamentals) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Symbol", "Name", "Sector", "Price", "Beta"})
	for _, row := range rows {
		price := ""
		if types.Has(row.CurrentPrice) {
			price = fmt.Sprintf("%.2f", row.CurrentPrice)
		}
		beta := ""
		if types.Has(row.Beta) {
			beta = fmt.Sprintf("%.2f", row.Beta)
		}
		t.AppendRow(table.Row{row.Symbol, row.Name, row.SectorKey, price, beta})
	}

	t.Render()
	fmt.Println()
}
