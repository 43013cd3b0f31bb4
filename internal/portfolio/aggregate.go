package portfolio

import (
	"time"

	"portfolioTracker/internal/feed"
)

// AggregateResult carries the time-indexed output of Aggregate plus the final
// scalar values. InitialValue is the cumulative contributed basis as of the
// last index date, not the basis at the time of first purchase.
type AggregateResult struct {
	Values     []ValuePoint
	Growth     []SeriesPoint
	Benchmark  []SeriesPoint
	Investment []SeriesPoint

	LatestValue   float64
	InitialValue  float64
	GrowthPercent float64
	HasGrowth     bool
}

// Aggregate converts lots and a price table into the portfolio value, growth,
// benchmark and scaled investment-activity series over the table's shared
// calendar, extended to include asOf.
//
// A lot is active on a date once its buy date has passed. Lots whose ticker is
// absent from the table contribute to neither series (the summarizer still
// counts their contributed capital); a lot whose ticker lacks a price on a
// particular date contributes no market value on that date.
func Aggregate(lots []Lot, prices *feed.PriceTable, asOf time.Time, benchmarkRate float64) AggregateResult {
	if prices == nil {
		prices = feed.NewPriceTable()
	}
	prices.ExtendCalendar(asOf)
	dates := prices.Dates

	res := AggregateResult{}
	for _, date := range dates {
		dayKey := feed.DayKey(date)
		point := ValuePoint{Date: date}
		for _, lot := range lots {
			if !prices.HasTicker(lot.Ticker) {
				continue
			}
			if feed.DayKey(lot.BuyDate) > dayKey {
				continue
			}
			point.CostBasis += lot.CostBasis()
			if close, ok := prices.Close(lot.Ticker, date); ok {
				point.MarketValue += lot.Shares * close
			}
		}
		res.Values = append(res.Values, point)

		growth := SeriesPoint{Date: date}
		if point.CostBasis > 0 {
			growth.Value = 100 * (point.MarketValue - point.CostBasis) / point.CostBasis
			growth.Valid = true
		}
		res.Growth = append(res.Growth, growth)
	}

	res.Benchmark = benchmarkSeries(dates, benchmarkRate)
	res.Investment = investmentSeries(lots, dates, maxValid(res.Growth))

	if n := len(res.Values); n > 0 {
		last := res.Values[n-1]
		res.LatestValue = last.MarketValue
		res.InitialValue = last.CostBasis
		if last.CostBasis > 0 {
			res.GrowthPercent = 100 * (last.MarketValue - last.CostBasis) / last.CostBasis
			res.HasGrowth = true
		}
	}
	return res
}

// benchmarkSeries builds the fixed-rate reference curve anchored at the first
// index date: value(d) = (rate/365) x days since start. The accrual is simple
// and non-compounding for parity with the dashboard's historical output.
func benchmarkSeries(dates []time.Time, rate float64) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(dates))
	if len(dates) == 0 {
		return out
	}
	start := dates[0]
	for _, date := range dates {
		days := date.Sub(start).Hours() / 24
		out = append(out, SeriesPoint{
			Date:  date,
			Value: (rate / 365.0) * days,
			Valid: true,
		})
	}
	return out
}

// investmentSeries builds the per-date cash committed on that day as a 0..1
// fraction of total contributed capital, rescaled so its peak equals the
// series' maximum growth value. Purely a display-scaling convenience; when no
// cash lands on an indexed date the series stays at zero.
func investmentSeries(lots []Lot, dates []time.Time, maxGrowth float64) []SeriesPoint {
	committed := map[string]float64{}
	total := 0.0
	for _, lot := range lots {
		committed[feed.DayKey(lot.BuyDate)] += lot.CostBasis()
		total += lot.CostBasis()
	}

	out := make([]SeriesPoint, 0, len(dates))
	maxFraction := 0.0
	for _, date := range dates {
		fraction := 0.0
		if total > 0 {
			fraction = committed[feed.DayKey(date)] / total
		}
		if fraction > maxFraction {
			maxFraction = fraction
		}
		out = append(out, SeriesPoint{Date: date, Value: fraction, Valid: true})
	}
	if maxFraction <= 0 {
		return out
	}
	scale := maxGrowth / maxFraction
	for i := range out {
		out[i].Value *= scale
	}
	return out
}

func maxValid(series []SeriesPoint) float64 {
	max := 0.0
	found := false
	for _, p := range series {
		if !p.Valid {
			continue
		}
		if !found || p.Value > max {
			max = p.Value
			found = true
		}
	}
	return max
}
