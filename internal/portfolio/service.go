package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"portfolioTracker/internal/common"
	"portfolioTracker/internal/feed"
)

// RunRecorder persists a line of telemetry per completed analysis.
type RunRecorder interface {
	SaveRun(a *Analysis) error
}

// RiskNotifier delivers an alert when an analysis raises risk flags.
type RiskNotifier interface {
	RiskAlert(flags []string, latestValue float64) error
}

// ServiceOptions carries the fixed parameters of the analysis.
type ServiceOptions struct {
	HoldingsPath  string
	BenchmarkRate float64
	TFSALimit     float64
}

// Service runs the full portfolio computation against the price feed.
type Service struct {
	feed feed.Feed
	log  *common.Logger
	opts ServiceOptions
	now  func() time.Time

	recorder RunRecorder
	notifier RiskNotifier
}

func NewService(f feed.Feed, logger *common.Logger, opts ServiceOptions) *Service {
	return &Service{
		feed: f,
		log:  logger,
		opts: opts,
		now:  time.Now,
	}
}

// SetRunRecorder attaches the optional run log.
func (s *Service) SetRunRecorder(r RunRecorder) { s.recorder = r }

// SetNotifier attaches the optional risk alert channel.
func (s *Service) SetNotifier(n RiskNotifier) { s.notifier = n }

// Compute loads the holdings, fetches prices and metadata, and assembles a
// fresh Analysis. Per-ticker feed failures are tolerated: failed tickers drop
// out of ticker-specific aggregates while their contributed capital is kept.
func (s *Service) Compute(ctx context.Context) (*Analysis, error) {
	lots, err := LoadHoldingsCSV(s.opts.HoldingsPath)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, fmt.Errorf("no holdings in %s", s.opts.HoldingsPath)
	}

	asOf := s.now()
	start := earliestBuyDate(lots, asOf)
	tickers := distinctTickers(lots)

	prices, err := s.feed.DailyCloses(ctx, tickers, start, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily closes: %w", err)
	}
	quotes := s.feed.Quotes(ctx, tickers)
	s.log.Debug().
		Int("tickers", len(tickers)).
		Int("quotes", len(quotes)).
		Int("dates", len(prices.Dates)).
		Msg("feed data fetched")

	// Backfill today's close from the live quote where the daily series
	// lacks it, so the latest index date reflects the current price.
	for ticker, quote := range quotes {
		if !quote.HasLive {
			continue
		}
		if _, ok := prices.Close(ticker, asOf); !ok && prices.HasTicker(ticker) {
			prices.SetClose(ticker, asOf, quote.LivePrice)
		}
	}

	agg := Aggregate(lots, prices, asOf, s.opts.BenchmarkRate)
	sum := Summarize(lots, quotes, asOf)
	flags := EvaluateRisk(sum.SectorAllocation, sum.DividendIncome)

	history := make([]Lot, len(lots))
	copy(history, lots)
	sort.SliceStable(history, func(i, j int) bool { return history[i].BuyDate.Before(history[j].BuyDate) })

	a := &Analysis{
		Values:     agg.Values,
		Growth:     agg.Growth,
		Benchmark:  agg.Benchmark,
		Investment: agg.Investment,

		LatestValue:   round2(agg.LatestValue),
		InitialValue:  round2(agg.InitialValue),
		GrowthPercent: round2(agg.GrowthPercent),
		HasGrowth:     agg.HasGrowth,
		YearsHeld:     asOf.Sub(start).Hours() / 24 / 365,

		Holdings:            sum.Holdings,
		DividendIncome:      sum.DividendIncome,
		TotalDividendIncome: round2(sum.TotalDividendIncome),
		UpcomingDividends:   sum.UpcomingDividends,
		SectorAllocation:    sum.SectorAllocation,
		TotalContributed:    round2(sum.TotalContributed),
		TFSALimit:           s.opts.TFSALimit,
		InvestmentHistory:   history,
		RiskFlags:           flags,

		ComputedAt: asOf,
	}

	if s.recorder != nil {
		if err := s.recorder.SaveRun(a); err != nil {
			s.log.Warn().Err(err).Msg("failed to record analysis run")
		}
	}
	if s.notifier != nil && len(flags) > 0 {
		if err := s.notifier.RiskAlert(flags, a.LatestValue); err != nil {
			s.log.Warn().Err(err).Msg("failed to send risk alert")
		}
	}

	return a, nil
}

func distinctTickers(lots []Lot) []string {
	seen := map[string]bool{}
	var tickers []string
	for _, lot := range lots {
		if !seen[lot.Ticker] {
			seen[lot.Ticker] = true
			tickers = append(tickers, lot.Ticker)
		}
	}
	return tickers
}

func earliestBuyDate(lots []Lot, fallback time.Time) time.Time {
	earliest := fallback
	for _, lot := range lots {
		if lot.BuyDate.IsZero() {
			continue
		}
		if lot.BuyDate.Before(earliest) {
			earliest = lot.BuyDate
		}
	}
	return earliest
}
