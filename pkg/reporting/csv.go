package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/niftylab/stock-analyzer/internal/analyzer"
)

// DefaultCSVReporter implements CSV output functionality.
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter.
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

var selectionHeader = []string{
	"rank", "symbol", "past_cagr", "future_cagr",
	"price_past_start", "price_future_start", "price_current",
}

// WritePortfolioCSV writes the ranked selection table to path. An .xlsx path
// delegates to the Excel writer.
func (r *DefaultCSVReporter) WritePortfolioCSV(portfolio *analyzer.Portfolio, a analyzer.Analysis, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WritePortfolioXLSX(portfolio, a, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(selectionHeader); err != nil {
		return err
	}

	for i, rec := range portfolio.Records {
		row := []string{
			strconv.Itoa(i + 1),
			rec.Symbol,
			fmt.Sprintf("%.4f", rec.PastCAGR),
			fmt.Sprintf("%.4f", rec.FutureCAGR),
			fmt.Sprintf("%.2f", rec.PricePastStart),
			fmt.Sprintf("%.2f", rec.PriceFutureStart),
			fmt.Sprintf("%.2f", rec.PriceCurrent),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteAnalysisCSV writes the aggregate statistics as key/value rows.
func (r *DefaultCSVReporter) WriteAnalysisCSV(portfolio *analyzer.Portfolio, a analyzer.Analysis, path string) error {
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

	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.4f", *v)
	}

	window := portfolio.Window
	rows := [][]string{
		{"metric", "value"},
		{"variant", portfolio.Variant},
		{"past_start_date", window.PastStart.Format("2006-01-02")},
		{"past_end_date", window.PastEnd.Format("2006-01-02")},
		{"future_start_date", window.FutureStart.Format("2006-01-02")},
		{"future_end_date", window.FutureEnd.Format("2006-01-02")},
		{"num_stocks", strconv.Itoa(len(portfolio.Records))},
		{"mean_past_cagr", fmt.Sprintf("%.4f", a.MeanPastCAGR)},
		{"mean_future_cagr", fmt.Sprintf("%.4f", a.MeanFutureCAGR)},
		{"combined_past_cagr", optional(a.CombinedPastCAGR)},
		{"combined_future_cagr", optional(a.CombinedFutureCAGR)},
		{"absolute_return_past", fmt.Sprintf("%.4f", a.AbsoluteReturnPast)},
		{"absolute_return_future", fmt.Sprintf("%.4f", a.AbsoluteReturnFuture)},
		{"sum_price_past_start", fmt.Sprintf("%.2f", a.SumPricePastStart)},
		{"sum_price_future_start", fmt.Sprintf("%.2f", a.SumPriceFutureStart)},
		{"sum_price_current", fmt.Sprintf("%.2f", a.SumPriceCurrent)},
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// SavePortfolioArtifacts writes the selection table and analysis pair into
// the run's artifact directory and returns that directory.
func (r *DefaultCSVReporter) SavePortfolioArtifacts(outputDir string, portfolio *analyzer.Portfolio, a analyzer.Analysis) (string, error) {
	w := portfolio.Window
	dir := PortfolioDir(outputDir, portfolio.Variant, w.X, w.Y, w.Z)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := r.WritePortfolioCSV(portfolio, a, filepath.Join(dir, PortfolioFileName(w.X, w.Y, w.Z))); err != nil {
		return "", err
	}
	if err := r.WriteAnalysisCSV(portfolio, a, filepath.Join(dir, AnalysisFileName(w.X, w.Y, w.Z))); err != nil {
		return "", err
	}

	return dir, nil
}

// Package-level convenience functions

func WritePortfolioCSV(portfolio *analyzer.Portfolio, a analyzer.Analysis, path string) error {
	return NewDefaultCSVReporter().WritePortfolioCSV(portfolio, a, path)
}

func SavePortfolioArtifacts(outputDir string, portfolio *analyzer.Portfolio, a analyzer.Analysis) (string, error) {
	return NewDefaultCSVReporter().SavePortfolioArtifacts(outputDir, portfolio, a)
}
