package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// dateFormat is the on-disk date layout for performance table files.
const dateFormat = "2006-01-02"

// perfColumns is the fixed, versioned column set of a persisted performance
// table. Window parameters are explicit columns, never part of a name.
var perfColumns = []string{
	"symbol", "x", "y", "z",
	"price_past_start", "price_future_start", "price_current",
	"past_cagr", "future_cagr",
	"past_start_date", "past_end_date", "future_start_date", "future_end_date",
	"evaluation_date", "reference_date",
}

// PerfFileName is the cache file name for one (x, y, z) combination.
func PerfFileName(x, y, z float64) string {
	return fmt.Sprintf("perf_%g_%g_%g.csv", x, y, z)
}

// PerfFilePath is the cache file path for one (x, y, z) combination.
func PerfFilePath(cacheDir string, x, y, z float64) string {
	return filepath.Join(cacheDir, PerfFileName(x, y, z))
}

// SaveTable persists a performance table to its (x, y, z)-keyed file under
// cacheDir, creating the directory as needed. Returns the written path.
func SaveTable(cacheDir string, table *PerformanceTable) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", err
	}

	path := PerfFilePath(cacheDir, table.Window.X, table.Window.Y, table.Window.Z)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(perfColumns); err != nil {
		return "", err
	}

	for _, rec := range table.Records {
		row := []string{
			rec.Symbol,
			formatFloat(rec.X),
			formatFloat(rec.Y),
			formatFloat(rec.Z),
			formatFloat(rec.PricePastStart),
			formatFloat(rec.PriceFutureStart),
			formatFloat(rec.PriceCurrent),
			formatFloat(rec.PastCAGR),
			formatFloat(rec.FutureCAGR),
			rec.PastStartDate.Format(dateFormat),
			rec.PastEndDate.Format(dateFormat),
			rec.FutureStartDate.Format(dateFormat),
			rec.FutureEndDate.Format(dateFormat),
			rec.EvaluationDate.Format(dateFormat),
			rec.ReferenceDate.Format(dateFormat),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return path, w.Error()
}

// LoadTable reads a persisted performance table back from disk. The window
// embedded in the returned table is reconstructed from the stored columns.
func LoadTable(path string) (*PerformanceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read performance table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range perfColumns {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("performance table %s is missing column %q", path, required)
		}
	}

	table := &PerformanceTable{}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read performance table at line %d: %w", line+1, err)
		}
		line++

		rec, err := parseRecord(record, col)
		if err != nil {
			return nil, fmt.Errorf("performance table %s line %d: %w", path, line, err)
		}
		table.Records = append(table.Records, rec)
	}

	if len(table.Records) > 0 {
		first := table.Records[0]
		table.Window = WindowSpec{
			X:             first.X,
			Y:             first.Y,
			Z:             first.Z,
			ReferenceDate: first.ReferenceDate,
			PastStart:     first.PastStartDate,
			PastEnd:       first.PastEndDate,
			FutureStart:   first.FutureStartDate,
			FutureEnd:     first.FutureEndDate,
		}
	}

	return table, nil
}

func parseRecord(record []string, col map[string]int) (PerformanceRecord, error) {
	var rec PerformanceRecord

	get := func(name string) string { return record[col[name]] }
	num := func(name string) (float64, error) { return strconv.ParseFloat(get(name), 64) }
	date := func(name string) (time.Time, error) { return time.Parse(dateFormat, get(name)) }

	rec.Symbol = get("symbol")

	var err error
	if rec.X, err = num("x"); err != nil {
		return rec, err
	}
	if rec.Y, err = num("y"); err != nil {
		return rec, err
	}
	if rec.Z, err = num("z"); err != nil {
		return rec, err
	}
	if rec.PricePastStart, err = num("price_past_start"); err != nil {
		return rec, err
	}
	if rec.PriceFutureStart, err = num("price_future_start"); err != nil {
		return rec, err
	}
	if rec.PriceCurrent, err = num("price_current"); err != nil {
		return rec, err
	}
	if rec.PastCAGR, err = num("past_cagr"); err != nil {
		return rec, err
	}
	if rec.FutureCAGR, err = num("future_cagr"); err != nil {
		return rec, err
	}
	if rec.PastStartDate, err = date("past_start_date"); err != nil {
		return rec, err
	}
	if rec.PastEndDate, err = date("past_end_date"); err != nil {
		return rec, err
	}
	if rec.FutureStartDate, err = date("future_start_date"); err != nil {
		return rec, err
	}
	if rec.FutureEndDate, err = date("future_end_date"); err != nil {
		return rec, err
	}
	if rec.EvaluationDate, err = date("evaluation_date"); err != nil {
		return rec, err
	}
	if rec.ReferenceDate, err = date("reference_date"); err != nil {
		return rec, err
	}

	return rec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
