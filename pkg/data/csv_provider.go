package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// CSVProvider implements SeriesProvider for one-file-per-symbol CSV history
// directories as written by the data downloader.
type CSVProvider struct {
	dir    string
	format CSVColumnMapping
	logger *zap.Logger
}

// NewCSVProvider creates a CSV series provider reading from dir with the
// default column layout.
func NewCSVProvider(dir string, logger *zap.Logger) *CSVProvider {
	return NewCSVProviderWithFormat(dir, DefaultCSVFormat, logger)
}

// NewCSVProviderWithFormat creates a CSV series provider with a custom layout.
func NewCSVProviderWithFormat(dir string, format CSVColumnMapping, logger *zap.Logger) *CSVProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVProvider{dir: dir, format: format, logger: logger}
}

// GetName returns the name of the provider.
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// HasSeries reports whether a history file exists for the symbol.
func (p *CSVProvider) HasSeries(symbol string) bool {
	_, err := os.Stat(p.filePath(symbol))
	return err == nil
}

func (p *CSVProvider) filePath(symbol string) string {
	return filepath.Join(p.dir, symbol+".csv")
}

// LoadSeries reads a symbol's full price history. Rows with unparsable
// dates or prices are skipped with a warning; the result is sorted
// ascending by date and deduplicated by date (last row wins). The raw
// files may be stored in either date order.
func (p *CSVProvider) LoadSeries(symbol string) ([]types.PriceBar, error) {
	file, err := os.Open(p.filePath(symbol))
	if err != nil {
		return nil, fmt.Errorf("open price history for %s: %w", symbol, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []types.PriceBar{}, nil
		}
		return nil, fmt.Errorf("read header for %s: %w", symbol, err)
	}

	cols, err := p.resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}

	byDate := make(map[time.Time]types.PriceBar)

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price history for %s at line %d: %w", symbol, lineNum+1, err)
		}
		lineNum++

		bar, ok := p.parseRow(symbol, record, cols, lineNum)
		if !ok {
			continue
		}
		byDate[bar.Date] = bar
	}

	bars := make([]types.PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return bars, nil
}

type columnIndexes struct {
	date, open, high, low, close, volume int
}

func (p *CSVProvider) resolveColumns(header []string) (columnIndexes, error) {
	idx := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		date:   idx(p.format.DateCol),
		open:   idx(p.format.OpenCol),
		high:   idx(p.format.HighCol),
		low:    idx(p.format.LowCol),
		close:  idx(p.format.CloseCol),
		volume: idx(p.format.VolumeCol),
	}
	if cols.date < 0 || cols.close < 0 {
		return cols, fmt.Errorf("required columns %q and %q not found in header", p.format.DateCol, p.format.CloseCol)
	}
	return cols, nil
}

func (p *CSVProvider) parseRow(symbol string, record []string, cols columnIndexes, lineNum int) (types.PriceBar, bool) {
	var bar types.PriceBar

	if cols.date >= len(record) || cols.close >= len(record) {
		p.logger.Warn("short price history row, skipping",
			zap.String("symbol", symbol), zap.Int("line", lineNum))
		return bar, false
	}

	date, err := parseDate(record[cols.date], p.format.DateFormat)
	if err != nil {
		p.logger.Warn("invalid date in price history, skipping",
			zap.String("symbol", symbol), zap.Int("line", lineNum), zap.String("value", record[cols.date]))
		return bar, false
	}

	close, err := strconv.ParseFloat(record[cols.close], 64)
	if err != nil {
		p.logger.Warn("invalid close price, skipping",
			zap.String("symbol", symbol), zap.Int("line", lineNum), zap.String("value", record[cols.close]))
		return bar, false
	}

	bar = types.PriceBar{
		Date:   date,
		Close:  close,
		Open:   optionalFloat(record, cols.open),
		High:   optionalFloat(record, cols.high),
		Low:    optionalFloat(record, cols.low),
		Volume: optionalFloat(record, cols.volume),
	}
	return bar, true
}

func optionalFloat(record []string, col int) float64 {
	if col < 0 || col >= len(record) {
		return 0
	}
	v, err := strconv.ParseFloat(record[col], 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDate handles both plain dates and the timezone-suffixed timestamps
// the downloader writes (e.g. "2020-01-01 00:00:00+05:30").
func parseDate(value, format string) (time.Time, error) {
	if t, err := time.Parse(format, value); err == nil {
		return types.Day(t), nil
	}
	if len(value) >= len(format) {
		if t, err := time.Parse(format, value[:len(format)]); err == nil {
			return types.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}
