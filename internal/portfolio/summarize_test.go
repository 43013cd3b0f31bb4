package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioTracker/internal/feed"
)

func TestSummarizeSnapshots(t *testing.T) {
	lots := []Lot{
		{Ticker: "AAA", Shares: 10, BuyPrice: 100, BuyDate: day(t, "2024-01-01")},
		{Ticker: "BBB", Shares: 5, BuyPrice: 0, BuyDate: day(t, "2024-01-01")},
	}
	quotes := map[string]feed.Quote{
		"AAA": {Ticker: "AAA", LivePrice: 120, HasLive: true, Sector: "Technology"},
		"BBB": {Ticker: "BBB", LivePrice: 8, HasLive: true, Sector: "Energy"},
	}

	sum := Summarize(lots, quotes, day(t, "2024-06-01"))

	require.Len(t, sum.Holdings, 2)
	assert.Equal(t, Holding{Ticker: "AAA", Shares: 10, BuyPrice: 100, CurrentPrice: 120, ChangePercent: 20}, sum.Holdings[0])
	// Zero buy price yields 0% change, not an error.
	assert.Equal(t, 0.0, sum.Holdings[1].ChangePercent)
	assert.InDelta(t, 1000.0, sum.TotalContributed, 1e-9)
}

func TestSummarizeSkipsFailedLookupButKeepsContribution(t *testing.T) {
	lots := []Lot{
		{Ticker: "AAA", Shares: 10, BuyPrice: 100, BuyDate: day(t, "2024-01-01")},
		{Ticker: "DEAD", Shares: 4, BuyPrice: 50, BuyDate: day(t, "2024-01-01")},
	}
	quotes := map[string]feed.Quote{
		"AAA": {Ticker: "AAA", LivePrice: 110, HasLive: true, Sector: "Technology"},
	}

	sum := Summarize(lots, quotes, day(t, "2024-06-01"))

	require.Len(t, sum.Holdings, 1)
	assert.Equal(t, "AAA", sum.Holdings[0].Ticker)
	_, inSectors := sum.SectorAllocation["Unknown"]
	assert.False(t, inSectors, "failed lookup is excluded from sector aggregation")
	assert.InDelta(t, 1200.0, sum.TotalContributed, 1e-9, "contributed capital is never dropped")
}

func TestSectorAllocation(t *testing.T) {
	lots := []Lot{
		{Ticker: "AAA", Shares: 10, BuyPrice: 100}, // 1000 Technology
		{Ticker: "BBB", Shares: 10, BuyPrice: 50},  // 500 Energy
		{Ticker: "CCC", Shares: 10, BuyPrice: 50},  // 500 Unknown
	}
	quotes := map[string]feed.Quote{
		"AAA": {Ticker: "AAA", Sector: "Technology"},
		"BBB": {Ticker: "BBB", Sector: "Energy"},
		"CCC": {Ticker: "CCC"},
	}

	sum := Summarize(lots, quotes, day(t, "2024-06-01"))

	assert.InDelta(t, 50.0, sum.SectorAllocation["Technology"], 1e-9)
	assert.InDelta(t, 25.0, sum.SectorAllocation["Energy"], 1e-9)
	assert.InDelta(t, 25.0, sum.SectorAllocation[SectorUnknown], 1e-9)

	total := 0.0
	for _, pct := range sum.SectorAllocation {
		total += pct
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestSectorAllocationEmptyWhenNoBasis(t *testing.T) {
	lots := []Lot{{Ticker: "AAA", Shares: 5, BuyPrice: 0}}
	quotes := map[string]feed.Quote{"AAA": {Ticker: "AAA", Sector: "Technology"}}

	sum := Summarize(lots, quotes, day(t, "2024-06-01"))

	assert.Empty(t, sum.SectorAllocation)
}

func TestDividendProjection(t *testing.T) {
	lots := []Lot{
		{Ticker: "AAA", Shares: 10, BuyPrice: 100},
		{Ticker: "BBB", Shares: 5, BuyPrice: 50},
	}
	quotes := map[string]feed.Quote{
		"AAA": {Ticker: "AAA", DividendRate: 2.5},
		"BBB": {Ticker: "BBB"}, // no dividend rate, no projection
	}

	sum := Summarize(lots, quotes, day(t, "2024-06-01"))

	require.Len(t, sum.DividendIncome, 1)
	assert.Equal(t, DividendIncome{Ticker: "AAA", Shares: 10, Rate: 2.5, AnnualIncome: 25}, sum.DividendIncome[0])
	assert.InDelta(t, 25.0, sum.TotalDividendIncome, 1e-9)
}

func TestUpcomingDividendsFilterAndOrder(t *testing.T) {
	today := day(t, "2024-03-01")
	lots := []Lot{
		{Ticker: "LATE", Shares: 1, BuyPrice: 1},
		{Ticker: "PAST", Shares: 1, BuyPrice: 1},
		{Ticker: "SOON", Shares: 1, BuyPrice: 1},
		{Ticker: "SAME", Shares: 1, BuyPrice: 1},
	}
	quotes := map[string]feed.Quote{
		"LATE": {Ticker: "LATE", DividendDate: day(t, "2024-04-15"), LastDividend: 0.5, HasLastDividend: true},
		"PAST": {Ticker: "PAST", DividendDate: day(t, "2024-02-28")},
		"SOON": {Ticker: "SOON", DividendDate: day(t, "2024-03-05")},
		"SAME": {Ticker: "SAME", DividendDate: day(t, "2024-04-15")},
	}

	sum := Summarize(lots, quotes, today)

	require.Len(t, sum.UpcomingDividends, 3, "a date strictly before today is never included")
	assert.Equal(t, "SOON", sum.UpcomingDividends[0].Ticker)
	// Ties keep the original ticker order.
	assert.Equal(t, "LATE", sum.UpcomingDividends[1].Ticker)
	assert.Equal(t, "SAME", sum.UpcomingDividends[2].Ticker)

	assert.True(t, sum.UpcomingDividends[0].Date.Before(sum.UpcomingDividends[1].Date) ||
		sum.UpcomingDividends[0].Date.Equal(sum.UpcomingDividends[1].Date))
	assert.True(t, sum.UpcomingDividends[1].HasAmount)
	assert.Equal(t, 0.5, sum.UpcomingDividends[1].Amount)
	assert.False(t, sum.UpcomingDividends[0].HasAmount, "no dividend history means no value, not zero")
}

func TestUpcomingDividendIncludedOnToday(t *testing.T) {
	today := day(t, "2024-03-01")
	lots := []Lot{{Ticker: "AAA", Shares: 1, BuyPrice: 1}}
	quotes := map[string]feed.Quote{
		"AAA": {Ticker: "AAA", DividendDate: day(t, "2024-03-01")},
	}

	sum := Summarize(lots, quotes, today)

	require.Len(t, sum.UpcomingDividends, 1)
}
