package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHoldings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHoldingsCSV(t *testing.T) {
	path := writeHoldings(t, "ticker,shares,buy_price,date\nAAA,10,100.5,2024-01-01\nbbb,5,20,2024-02-15\n")

	lots, err := LoadHoldingsCSV(path)
	require.NoError(t, err)

	require.Len(t, lots, 2)
	assert.Equal(t, "AAA", lots[0].Ticker)
	assert.Equal(t, 10.0, lots[0].Shares)
	assert.Equal(t, 100.5, lots[0].BuyPrice)
	assert.Equal(t, day(t, "2024-01-01"), lots[0].BuyDate)
	assert.Equal(t, "BBB", lots[1].Ticker, "tickers are upper-cased")
}

func TestLoadHoldingsCSVLenientNumbers(t *testing.T) {
	// Malformed numeric fields coerce to zero instead of rejecting the row.
	path := writeHoldings(t, "ticker,shares,buy_price,date\nAAA,ten,100,2024-01-01\nBBB,5,,2024-01-01\n")

	lots, err := LoadHoldingsCSV(path)
	require.NoError(t, err)

	require.Len(t, lots, 2)
	assert.Equal(t, 0.0, lots[0].Shares)
	assert.Equal(t, 100.0, lots[0].BuyPrice)
	assert.Equal(t, 0.0, lots[1].BuyPrice)
}

func TestLoadHoldingsCSVSkipsBlankTickers(t *testing.T) {
	path := writeHoldings(t, "ticker,shares,buy_price,date\n,10,100,2024-01-01\nAAA,1,2,2024-01-01\n")

	lots, err := LoadHoldingsCSV(path)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "AAA", lots[0].Ticker)
}

func TestLoadHoldingsCSVMissingTickerColumn(t *testing.T) {
	path := writeHoldings(t, "symbol,shares\nAAA,10\n")

	_, err := LoadHoldingsCSV(path)
	assert.Error(t, err)
}

func TestFlexFloatLenientPolicy(t *testing.T) {
	var in struct {
		A FlexFloat `json:"a"`
		B FlexFloat `json:"b"`
		C FlexFloat `json:"c"`
		D FlexFloat `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2.5, "b": "3", "c": "junk", "d": null}`), &in))

	assert.Equal(t, FlexFloat(2.5), in.A)
	assert.Equal(t, FlexFloat(3), in.B, "numeric strings parse")
	assert.Equal(t, FlexFloat(0), in.C, "junk coerces to zero")
	assert.Equal(t, FlexFloat(0), in.D)
}
