package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

func TestLoadFundamentals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte(`symbol,name_of_company,sector_key,current_price,beta,debt_to_equity,ex_dividend_date
ACME,Acme Industries,utilities,120.5,0.8,45.2,2023-06-01
BOLT,Bolt Fasteners,technology,55,1.4,,
,No Symbol Row,misc,1,1,1,
ACME,Duplicate Acme,misc,999,9,9,
`), 0644))

	table, err := LoadFundamentals(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	acme, ok := table.Lookup("ACME")
	require.True(t, ok)
	assert.Equal(t, "Acme Industries", acme.Name, "first occurrence wins over duplicates")
	assert.Equal(t, "utilities", acme.SectorKey)
	assert.Equal(t, 120.5, acme.CurrentPrice)
	assert.Equal(t, "2023-06-01", acme.ExDividendDate)

	bolt, ok := table.Lookup("BOLT")
	require.True(t, ok)
	assert.False(t, types.Has(bolt.DebtToEquity), "blank cells load as NaN")
	assert.Equal(t, "", bolt.ExDividendDate)

	_, ok = table.Lookup("GONE")
	assert.False(t, ok)

	assert.Equal(t, []string{"ACME", "BOLT"}, table.Symbols())
}

func TestLoadFundamentalsMissingFile(t *testing.T) {
	_, err := LoadFundamentals(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
