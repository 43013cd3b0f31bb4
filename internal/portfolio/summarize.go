package portfolio

import (
	"sort"
	"time"

	"portfolioTracker/internal/feed"
)

// SectorUnknown buckets lots whose metadata carries no sector.
const SectorUnknown = "Unknown"

// Summary is the point-in-time output of Summarize.
type Summary struct {
	Holdings            []Holding
	DividendIncome      []DividendIncome
	TotalDividendIncome float64
	UpcomingDividends   []UpcomingDividend
	SectorAllocation    map[string]float64
	TotalContributed    float64
}

// Summarize produces per-lot snapshots, dividend projections, sector
// allocation and total contributed capital from the quote metadata.
//
// A lot whose ticker has no quote is skipped from holdings, dividends and
// sector aggregation, but its cost basis still counts toward
// TotalContributed: contributed capital is never silently dropped.
func Summarize(lots []Lot, quotes map[string]feed.Quote, today time.Time) Summary {
	sum := Summary{SectorAllocation: map[string]float64{}}

	sectorTotals := map[string]float64{}
	for _, lot := range lots {
		sum.TotalContributed += lot.CostBasis()

		quote, ok := quotes[lot.Ticker]
		if !ok {
			continue
		}

		current := quote.LivePrice
		// change_percent is 0 when the buy price is 0, not an error.
		change := 0.0
		if lot.BuyPrice > 0 {
			change = 100 * (current - lot.BuyPrice) / lot.BuyPrice
		}
		sum.Holdings = append(sum.Holdings, Holding{
			Ticker:        lot.Ticker,
			Shares:        int(lot.Shares),
			BuyPrice:      round2(lot.BuyPrice),
			CurrentPrice:  round2(current),
			ChangePercent: round2(change),
		})

		sector := quote.Sector
		if sector == "" {
			sector = SectorUnknown
		}
		sectorTotals[sector] += lot.CostBasis()

		if quote.DividendRate > 0 {
			income := round2(quote.DividendRate * lot.Shares)
			sum.DividendIncome = append(sum.DividendIncome, DividendIncome{
				Ticker:       lot.Ticker,
				Shares:       int(lot.Shares),
				Rate:         round2(quote.DividendRate),
				AnnualIncome: income,
			})
			sum.TotalDividendIncome += income
		}
	}

	total := 0.0
	for _, v := range sectorTotals {
		total += v
	}
	if total > 0 {
		for sector, v := range sectorTotals {
			sum.SectorAllocation[sector] = 100 * v / total
		}
	}

	sum.UpcomingDividends = upcomingDividends(lots, quotes, today)
	return sum
}

// upcomingDividends collects scheduled dividends per distinct ticker, keeping
// only dates on or after today. The result is sorted ascending by date; ties
// keep the original ticker order.
func upcomingDividends(lots []Lot, quotes map[string]feed.Quote, today time.Time) []UpcomingDividend {
	seen := map[string]bool{}
	var out []UpcomingDividend
	todayKey := feed.DayKey(today)

	for _, lot := range lots {
		if seen[lot.Ticker] {
			continue
		}
		seen[lot.Ticker] = true

		quote, ok := quotes[lot.Ticker]
		if !ok || quote.DividendDate.IsZero() {
			continue
		}
		if feed.DayKey(quote.DividendDate) < todayKey {
			continue
		}
		out = append(out, UpcomingDividend{
			Ticker:    lot.Ticker,
			Date:      quote.DividendDate,
			Amount:    quote.LastDividend,
			HasAmount: quote.HasLastDividend,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
