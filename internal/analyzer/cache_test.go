package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfFileName(t *testing.T) {
	assert.Equal(t, "perf_1_4_0.csv", PerfFileName(1, 4, 0))
	assert.Equal(t, "perf_0.5_2.5_1.csv", PerfFileName(0.5, 2.5, 1))
}

func TestSaveLoadTableRoundTrip(t *testing.T) {
	spec, err := PlanWindows(1, 4, 0, day(2024, time.January, 1))
	require.NoError(t, err)

	eval := day(2024, time.February, 1)
	table := &PerformanceTable{
		Window: spec,
		Records: []PerformanceRecord{
			{
				Symbol: "ACME", X: 1, Y: 4, Z: 0,
				PricePastStart: 102.5, PriceFutureStart: 88.25, PriceCurrent: 110,
				PastCAGR: -3.6625, FutureCAGR: 24.65,
				PastStartDate: spec.PastStart, PastEndDate: spec.PastEnd,
				FutureStartDate: spec.FutureStart, FutureEndDate: spec.FutureEnd,
				EvaluationDate: eval, ReferenceDate: spec.ReferenceDate,
			},
			{
				Symbol: "BOLT", X: 1, Y: 4, Z: 0,
				PricePastStart: 40, PriceFutureStart: 44, PriceCurrent: 39.5,
				PastCAGR: 2.4, FutureCAGR: -10.2,
				PastStartDate: spec.PastStart, PastEndDate: spec.PastEnd,
				FutureStartDate: spec.FutureStart, FutureEndDate: spec.FutureEnd,
				EvaluationDate: eval, ReferenceDate: spec.ReferenceDate,
			},
		},
	}

	dir := t.TempDir()
	path, err := SaveTable(dir, table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "perf_1_4_0.csv"), path)

	loaded, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, table.Records, loaded.Records)
	assert.Equal(t, spec, loaded.Window)
}

func TestSaveTableCreatesCacheDir(t *testing.T) {
	spec, err := PlanWindows(1, 1, 0, day(2024, time.January, 1))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err = SaveTable(dir, &PerformanceTable{Window: spec})
	require.NoError(t, err)

	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestLoadTableMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,x,y\nACME,1,4\n"), 0644))

	_, err := LoadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
