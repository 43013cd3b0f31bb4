// Package feed provides market data for the portfolio analytics: daily close
// prices plus per-ticker quote metadata (live price, sector, dividends).
package feed

import (
	"context"
	"sort"
	"time"
)

// Feed is the price/metadata boundary the analytics depend on. Implementations
// must isolate per-ticker failures: a ticker that cannot be fetched is simply
// absent from the result, it never aborts the whole call.
type Feed interface {
	// DailyCloses returns the daily close-price table for the tickers over
	// [start, end]. Tickers that fail to fetch are omitted from the table.
	DailyCloses(ctx context.Context, tickers []string, start, end time.Time) (*PriceTable, error)

	// Quotes returns live quote metadata per ticker. Failed lookups are
	// omitted from the map.
	Quotes(ctx context.Context, tickers []string) map[string]Quote
}

// Quote carries the per-ticker metadata used by the holdings summarizer.
type Quote struct {
	Ticker    string
	LivePrice float64
	HasLive   bool

	Sector       string // empty when unknown
	DividendRate float64

	// DividendDate is the next scheduled dividend date, zero when none.
	DividendDate time.Time

	// LastDividend is the most recent historical per-share payment.
	LastDividend    float64
	HasLastDividend bool
}

// PriceTable is a daily close-price table over a shared calendar. A missing
// entry means "no value" for that ticker on that day, which is distinct from
// a close of zero.
type PriceTable struct {
	Dates  []time.Time                   // shared calendar, ascending
	Closes map[string]map[string]float64 // ticker -> day key -> close
}

// DayKey normalizes a time to its calendar-day key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func NewPriceTable() *PriceTable {
	return &PriceTable{Closes: map[string]map[string]float64{}}
}

// Close returns the close for ticker on day, and whether a value exists.
func (p *PriceTable) Close(ticker string, day time.Time) (float64, bool) {
	series, ok := p.Closes[ticker]
	if !ok {
		return 0, false
	}
	v, ok := series[DayKey(day)]
	return v, ok
}

// HasTicker reports whether the table carries any prices for ticker.
func (p *PriceTable) HasTicker(ticker string) bool {
	return len(p.Closes[ticker]) > 0
}

// SetClose records a close for ticker on day, extending the shared calendar
// if the day is not yet present.
func (p *PriceTable) SetClose(ticker string, day time.Time, close float64) {
	if p.Closes == nil {
		p.Closes = map[string]map[string]float64{}
	}
	if p.Closes[ticker] == nil {
		p.Closes[ticker] = map[string]float64{}
	}
	p.Closes[ticker][DayKey(day)] = close
	p.ExtendCalendar(day)
}

// ExtendCalendar adds day to the shared calendar if absent, keeping it sorted.
func (p *PriceTable) ExtendCalendar(day time.Time) {
	key := DayKey(day)
	for _, d := range p.Dates {
		if DayKey(d) == key {
			return
		}
	}
	normalized, _ := time.ParseInLocation("2006-01-02", key, time.UTC)
	p.Dates = append(p.Dates, normalized)
	sort.Slice(p.Dates, func(i, j int) bool { return p.Dates[i].Before(p.Dates[j]) })
}
