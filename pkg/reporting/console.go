package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/niftylab/stock-analyzer/internal/analyzer"
)

// DefaultConsoleReporter implements console output functionality.
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter.
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintPortfolio renders the ranked selection and its aggregate statistics.
func (r *DefaultConsoleReporter) PrintPortfolio(portfolio *analyzer.Portfolio, a analyzer.Analysis) {
	window := portfolio.Window

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("%s PORTFOLIO  x=%g y=%g z=%g", portfolio.Variant, window.X, window.Y, window.Z))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Symbol", "Past CAGR %", "Future CAGR %", "Buy Price", "Current Price"})
	for i, rec := range portfolio.Records {
		t.AppendRow(table.Row{
			i + 1,
			rec.Symbol,
			fmt.Sprintf("%.2f", rec.PastCAGR),
			fmt.Sprintf("%.2f", rec.FutureCAGR),
			fmt.Sprintf("%.2f", rec.PriceFutureStart),
			fmt.Sprintf("%.2f", rec.PriceCurrent),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()

	r.printAnalysis(portfolio, a)
}

func (r *DefaultConsoleReporter) printAnalysis(portfolio *analyzer.Portfolio, a analyzer.Analysis) {
	optional := func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *v)
	}

	window := portfolio.Window

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("PORTFOLIO ANALYSIS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Past Window", fmt.Sprintf("%s .. %s", window.PastStart.Format("2006-01-02"), window.PastEnd.Format("2006-01-02"))},
		{"Future Window", fmt.Sprintf("%s .. %s", window.FutureStart.Format("2006-01-02"), window.FutureEnd.Format("2006-01-02"))},
		{"Stocks", len(portfolio.Records)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"Mean Past CAGR %", fmt.Sprintf("%.2f", a.MeanPastCAGR)},
		{"Mean Future CAGR %", fmt.Sprintf("%.2f", a.MeanFutureCAGR)},
		{"Combined Past CAGR %", optional(a.CombinedPastCAGR)},
		{"Combined Future CAGR %", optional(a.CombinedFutureCAGR)},
		{"Absolute Return Past %", fmt.Sprintf("%.2f", a.AbsoluteReturnPast)},
		{"Absolute Return Future %", fmt.Sprintf("%.2f", a.AbsoluteReturnFuture)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 24, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintRankedCombinations renders a parameter-search result, best first.
func (r *DefaultConsoleReporter) PrintRankedCombinations(ranked []analyzer.RankedCombination, limit int) {
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("COMBINATION RANKING")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "X", "Y", "N", "Mean Past CAGR %", "Mean Future CAGR %"})
	for i, c := range ranked {
		t.AppendRow(table.Row{
			i + 1, c.X, c.Y, c.N,
			fmt.Sprintf("%.2f", c.MeanPastCAGR),
			fmt.Sprintf("%.2f", c.MeanFutureCAGR),
		})
	}

	t.Render()
	fmt.Println()
}

// Package-level convenience functions

func PrintPortfolio(portfolio *analyzer.Portfolio, a analyzer.Analysis) {
	NewDefaultConsoleReporter().PrintPortfolio(portfolio, a)
}

func PrintRankedCombinations(ranked []analyzer.RankedCombination, limit int) {
	NewDefaultConsoleReporter().PrintRankedCombinations(ranked, limit)
}
