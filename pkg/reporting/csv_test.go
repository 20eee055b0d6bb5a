package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niftylab/stock-analyzer/internal/analyzer"
)

func samplePortfolio(t *testing.T) (*analyzer.Portfolio, analyzer.Analysis) {
	t.Helper()
	window, err := analyzer.PlanWindows(1, 4, 0, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	p := &analyzer.Portfolio{
		Variant: analyzer.VariantLosers,
		Window:  window,
		Records: []analyzer.PerformanceRecord{
			{Symbol: "ACME", PastCAGR: -12.5, FutureCAGR: 30.25, PricePastStart: 100, PriceFutureStart: 60, PriceCurrent: 78},
			{Symbol: "BOLT", PastCAGR: -8, FutureCAGR: 12, PricePastStart: 40, PriceFutureStart: 30, PriceCurrent: 33.6},
		},
	}

	combined := 21.0
	a := analyzer.Analysis{
		MeanPastCAGR:        -10.25,
		MeanFutureCAGR:      21.125,
		CombinedFutureCAGR:  &combined,
		SumPricePastStart:   140,
		SumPriceFutureStart: 90,
		SumPriceCurrent:     111.6,
	}
	return p, a
}

func TestPortfolioDirLayout(t *testing.T) {
	dir := PortfolioDir("out", "losers", 1, 4, 0)
	assert.Equal(t, filepath.Join("out", "losers", "1_4_0"), dir)

	assert.Equal(t, "port_1_4_0.csv", PortfolioFileName(1, 4, 0))
	assert.Equal(t, "port_analysis_0.5_2_1.csv", AnalysisFileName(0.5, 2, 1))
}

func TestSavePortfolioArtifacts(t *testing.T) {
	p, a := samplePortfolio(t)
	outputDir := t.TempDir()

	dir, err := SavePortfolioArtifacts(outputDir, p, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "losers", "1_4_0"), dir)

	f, err := os.Open(filepath.Join(dir, "port_1_4_0.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "symbol", rows[0][1])
	assert.Equal(t, "ACME", rows[1][1])
	assert.Equal(t, "1", rows[1][0], "rows carry their rank")
	assert.Equal(t, "BOLT", rows[2][1])

	af, err := os.Open(filepath.Join(dir, "port_analysis_1_4_0.csv"))
	require.NoError(t, err)
	defer af.Close()

	arows, err := csv.NewReader(af).ReadAll()
	require.NoError(t, err)

	metrics := make(map[string]string, len(arows))
	for _, row := range arows {
		metrics[row[0]] = row[1]
	}
	assert.Equal(t, "losers", metrics["variant"])
	assert.Equal(t, "2", metrics["num_stocks"])
	assert.Equal(t, "-10.2500", metrics["mean_past_cagr"])
	assert.Equal(t, "", metrics["combined_past_cagr"], "absent combined CAGR stays blank")
	assert.Equal(t, "21.0000", metrics["combined_future_cagr"])
	assert.Equal(t, "2019-01-02", metrics["past_start_date"])
}

func TestWritePortfolioCSVDelegatesToExcel(t *testing.T) {
	p, a := samplePortfolio(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WritePortfolioCSV(p, a, path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
