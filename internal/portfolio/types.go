// Package portfolio implements the portfolio analytics: value/growth series
// aggregation, holding and dividend summaries, sector allocation and risk
// flags, plus the cached analysis result served to the web layer.
package portfolio

import (
	"math"
	"time"
)

// Lot is one purchase record of a ticker. Lots are immutable once loaded for
// an analysis run; multiple lots may share a ticker.
type Lot struct {
	Ticker   string    `json:"ticker"`
	Shares   float64   `json:"shares"`
	BuyPrice float64   `json:"buy_price"`
	BuyDate  time.Time `json:"buy_date"`
}

// CostBasis is the amount paid for the lot.
func (l Lot) CostBasis() float64 { return l.Shares * l.BuyPrice }

// ValuePoint is one date of the portfolio value series.
type ValuePoint struct {
	Date        time.Time `json:"date"`
	MarketValue float64   `json:"market_value"`
	CostBasis   float64   `json:"cost_basis"`
}

// SeriesPoint is one date of a derived series. Valid is false where the value
// is undefined (for example growth before any lot is active); an invalid
// point carries no value, which is distinct from a value of zero.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Valid bool      `json:"valid"`
}

// Holding is a point-in-time view of one lot as of "now".
type Holding struct {
	Ticker        string  `json:"ticker"`
	Shares        int     `json:"shares"`
	BuyPrice      float64 `json:"buy_price"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
}

// DividendIncome projects the annual dividend income of one lot.
type DividendIncome struct {
	Ticker       string  `json:"ticker"`
	Shares       int     `json:"shares"`
	Rate         float64 `json:"rate"`
	AnnualIncome float64 `json:"annual_income"`
}

// UpcomingDividend is a scheduled dividend on or after today. HasAmount is
// false when the ticker has no dividend history to take the last payment from.
type UpcomingDividend struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	HasAmount bool      `json:"has_amount"`
}

// Analysis is the full computation result handed to the presentation layer.
// It is created fresh per computation and never mutated afterwards; the next
// computation supersedes it.
type Analysis struct {
	Values     []ValuePoint  `json:"values"`
	Growth     []SeriesPoint `json:"growth_series"`
	Benchmark  []SeriesPoint `json:"benchmark_series"`
	Investment []SeriesPoint `json:"investment_scaled"`

	LatestValue   float64 `json:"latest_value"`
	InitialValue  float64 `json:"initial_value"`
	GrowthPercent float64 `json:"growth"`
	HasGrowth     bool    `json:"has_growth"`
	YearsHeld     float64 `json:"years_held"`

	Holdings            []Holding          `json:"holdings"`
	DividendIncome      []DividendIncome   `json:"dividend_income"`
	TotalDividendIncome float64            `json:"total_dividend_income"`
	UpcomingDividends   []UpcomingDividend `json:"upcoming_dividends"`
	SectorAllocation    map[string]float64 `json:"sector_allocation"`
	TotalContributed    float64            `json:"total_contributed"`
	TFSALimit           float64            `json:"tfsa_limit"`
	InvestmentHistory   []Lot              `json:"investment_history"`
	RiskFlags           []string           `json:"risk_flags"`

	ComputedAt time.Time `json:"computed_at"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
