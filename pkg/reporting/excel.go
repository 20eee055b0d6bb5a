package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/niftylab/stock-analyzer/internal/analyzer"
)

// DefaultExcelReporter implements Excel output functionality.
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter.
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WritePortfolioXLSX writes the selection table and aggregate analysis to an
// Excel workbook, one sheet each.
func (r *DefaultExcelReporter) WritePortfolioXLSX(portfolio *analyzer.Portfolio, a analyzer.Analysis, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const selectionSheet = "Selection"
	const analysisSheet = "Analysis"

	fx.SetSheetName(fx.GetSheetName(0), selectionSheet)
	if _, err := fx.NewSheet(analysisSheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	if err := r.writeSelectionSheet(fx, selectionSheet, portfolio, headerStyle); err != nil {
		return err
	}
	if err := r.writeAnalysisSheet(fx, analysisSheet, portfolio, a, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) writeSelectionSheet(fx *excelize.File, sheet string, portfolio *analyzer.Portfolio, headerStyle int) error {
	headers := []string{"Rank", "Symbol", "Past CAGR %", "Future CAGR %", "Price @ Past Start", "Price @ Future Start", "Current Price"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, rec := range portfolio.Records {
		row := i + 2
		values := []interface{}{
			i + 1, rec.Symbol, rec.PastCAGR, rec.FutureCAGR,
			rec.PricePastStart, rec.PriceFutureStart, rec.PriceCurrent,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return fx.SetColWidth(sheet, "A", "G", 18)
}

func (r *DefaultExcelReporter) writeAnalysisSheet(fx *excelize.File, sheet string, portfolio *analyzer.Portfolio, a analyzer.Analysis, headerStyle int) error {
	for i, h := range []string{"Metric", "Value"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	optional := func(v *float64) interface{} {
		if v == nil {
			return "n/a"
		}
		return *v
	}

	window := portfolio.Window
	rows := []struct {
		metric string
		value  interface{}
	}{
		{"Variant", portfolio.Variant},
		{"Window", fmt.Sprintf("x=%g y=%g z=%g", window.X, window.Y, window.Z)},
		{"Past Window", fmt.Sprintf("%s .. %s", window.PastStart.Format("2006-01-02"), window.PastEnd.Format("2006-01-02"))},
		{"Future Window", fmt.Sprintf("%s .. %s", window.FutureStart.Format("2006-01-02"), window.FutureEnd.Format("2006-01-02"))},
		{"Stocks", len(portfolio.Records)},
		{"Mean Past CAGR %", a.MeanPastCAGR},
		{"Mean Future CAGR %", a.MeanFutureCAGR},
		{"Combined Past CAGR %", optional(a.CombinedPastCAGR)},
		{"Combined Future CAGR %", optional(a.CombinedFutureCAGR)},
		{"Absolute Return Past %", a.AbsoluteReturnPast},
		{"Absolute Return Future %", a.AbsoluteReturnFuture},
		{"Sum Price @ Past Start", a.SumPricePastStart},
		{"Sum Price @ Future Start", a.SumPriceFutureStart},
		{"Sum Current Price", a.SumPriceCurrent},
	}

	for i, row := range rows {
		metricCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, metricCell, row.metric); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, valueCell, row.value); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "A", "B", 26)
}

// Package-level convenience function
func WritePortfolioXLSX(portfolio *analyzer.Portfolio, a analyzer.Analysis, path string) error {
	return NewDefaultExcelReporter().WritePortfolioXLSX(portfolio, a, path)
}
