package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"portfolioTracker/internal/common"
)

const (
	defaultWorkers   = 4
	yahooUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
	quoteSummaryPath = "/v10/finance/quoteSummary/%s?modules=price,summaryProfile,summaryDetail,calendarEvents"
)

var yahooBaseURLs = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}

// YahooClient fetches daily closes and quote metadata from the Yahoo Finance
// chart and quoteSummary endpoints. Per-ticker calls are issued concurrently;
// each call carries a bounded timeout via the underlying http.Client.
type YahooClient struct {
	http    *http.Client
	log     *common.Logger
	workers int
	hosts   []string
}

func NewYahooClient(timeout time.Duration, logger *common.Logger) *YahooClient {
	return &YahooClient{
		http:    &http.Client{Timeout: timeout},
		log:     logger,
		workers: defaultWorkers,
		hosts:   yahooBaseURLs,
	}
}

// yahooChartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// yahooQuoteSummaryResp mirrors the v10 quoteSummary response (trimmed).
type yahooQuoteSummaryResp struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice struct {
					Raw float64 `json:"raw"`
				} `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			SummaryDetail struct {
				DividendRate struct {
					Raw float64 `json:"raw"`
				} `json:"dividendRate"`
			} `json:"summaryDetail"`
			CalendarEvents struct {
				DividendDate struct {
					Raw int64 `json:"raw"`
				} `json:"dividendDate"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

// getJSON fetches path from the Yahoo query hosts with staged backoff,
// decoding the JSON body into dest. It rotates hosts on failure and treats
// 429 and non-JSON bodies as retryable.
func (c *YahooClient) getJSON(ctx context.Context, path string, dest any) error {
	backoffs := []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}
	var lastErr error
	for attempt := 0; attempt < len(backoffs)+1; attempt++ {
		for _, host := range c.hosts {
			url := host + path
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", yahooUserAgent)
			req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
			req.Header.Set("Accept-Language", "en-US,en;q=0.9")
			resp, err := c.http.Do(req)
			if err != nil {
				lastErr = err
				continue
			}
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read yahoo response: %w", readErr)
				continue
			}
			if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
				lastErr = fmt.Errorf("yahoo %s returned 429", host)
				continue
			}
			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
				continue
			}
			if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
				lastErr = fmt.Errorf("yahoo returned non-json body: %s", preview(body))
				continue
			}
			if err := json.Unmarshal(body, dest); err != nil {
				lastErr = fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
				continue
			}
			return nil
		}
		if attempt < len(backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffs[attempt]):
			}
		}
	}
	return lastErr
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// DailyCloses fetches daily closes per ticker concurrently and merges them
// onto a shared calendar. Tickers that fail are logged and omitted; the call
// errors only when no ticker list is given.
func (c *YahooClient) DailyCloses(ctx context.Context, tickers []string, start, end time.Time) (*PriceTable, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers provided")
	}

	table := NewPriceTable()
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ts, closes, err := c.fetchDailySeries(ctx, ticker, start, end)
			if err != nil {
				c.log.Warn().Str("ticker", ticker).Err(err).Msg("daily close fetch failed, excluding ticker")
				return
			}
			mu.Lock()
			for i := range ts {
				if i >= len(closes) || closes[i] == 0 {
					continue
				}
				table.SetClose(ticker, time.Unix(ts[i], 0), closes[i])
			}
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return table, nil
}

func (c *YahooClient) fetchDailySeries(ctx context.Context, ticker string, start, end time.Time) ([]int64, []float64, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div,splits",
		ticker, start.Unix(), end.Add(24*time.Hour).Unix())
	var yc yahooChartResp
	if err := c.getJSON(ctx, path, &yc); err != nil {
		return nil, nil, err
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("no data for %s", ticker)
	}
	ts := yc.Chart.Result[0].Timestamp
	cl := yc.Chart.Result[0].Indicators.Quote[0].Close
	if len(ts) == 0 || len(cl) == 0 {
		return nil, nil, fmt.Errorf("empty bars for %s", ticker)
	}
	return ts, cl, nil
}

// Quotes fetches quote metadata per ticker concurrently. Failed lookups are
// logged and omitted so a single bad ticker never aborts the computation.
func (c *YahooClient) Quotes(ctx context.Context, tickers []string) map[string]Quote {
	quotes := make(map[string]Quote, len(tickers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			q, err := c.fetchQuote(ctx, ticker)
			if err != nil {
				c.log.Warn().Str("ticker", ticker).Err(err).Msg("quote lookup failed, skipping ticker")
				return
			}
			mu.Lock()
			quotes[ticker] = q
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return quotes
}

func (c *YahooClient) fetchQuote(ctx context.Context, ticker string) (Quote, error) {
	var qs yahooQuoteSummaryResp
	if err := c.getJSON(ctx, fmt.Sprintf(quoteSummaryPath, ticker), &qs); err != nil {
		return Quote{}, err
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return Quote{}, fmt.Errorf("no quote summary for %s", ticker)
	}
	r := qs.QuoteSummary.Result[0]

	q := Quote{
		Ticker:       ticker,
		Sector:       r.SummaryProfile.Sector,
		DividendRate: r.SummaryDetail.DividendRate.Raw,
	}
	if p := r.Price.RegularMarketPrice.Raw; p != 0 {
		q.LivePrice = p
		q.HasLive = true
	}
	if d := r.CalendarEvents.DividendDate.Raw; d != 0 {
		q.DividendDate = time.Unix(d, 0).UTC()
	}

	// Dividend history comes from the chart endpoint events; a failure here
	// only loses the "last paid amount" field, not the whole quote.
	if amount, ok, err := c.fetchLastDividend(ctx, ticker); err != nil {
		c.log.Debug().Str("ticker", ticker).Err(err).Msg("dividend history fetch failed")
	} else if ok {
		q.LastDividend = amount
		q.HasLastDividend = true
	}

	return q, nil
}

func (c *YahooClient) fetchLastDividend(ctx context.Context, ticker string) (float64, bool, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=2y&interval=1d&events=div", ticker)
	var yc yahooChartResp
	if err := c.getJSON(ctx, path, &yc); err != nil {
		return 0, false, err
	}
	if len(yc.Chart.Result) == 0 {
		return 0, false, nil
	}
	var amount float64
	var latest int64
	for _, div := range yc.Chart.Result[0].Events.Dividends {
		if div.Date > latest {
			latest = div.Date
			amount = div.Amount
		}
	}
	return amount, latest != 0, nil
}
