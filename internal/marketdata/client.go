// Package marketdata wraps the external quote and history HTTP endpoints.
// The upstream is third-party, unauthenticated and rate-limited: every
// response is treated as untrusted and every call is throttled and bounded
// by a per-request timeout.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client provides methods for fetching quotes and historical prices from the
// external market-data source.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	quoteBaseURL   string
	historyBaseURL string
	timeout        time.Duration
}

// NewClient creates a market-data client from configuration. The same rate
// limiter governs batch, fallback and history calls so concurrent fan-out
// cannot trip upstream limits.
func NewClient(cfg config.MarketDataConfig) *Client {
	return &Client{
		httpClient:     &http.Client{},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		quoteBaseURL:   strings.TrimRight(cfg.QuoteBaseURL, "/"),
		historyBaseURL: strings.TrimRight(cfg.HistoryBaseURL, "/"),
		timeout:        cfg.RequestTimeout,
	}
}

// BatchQuotes fetches current prices for all symbols in one request.
// Symbols missing from the response are simply absent from the result;
// entries with a non-positive price are dropped.
func (c *Client) BatchQuotes(ctx context.Context, symbols []string) ([]BatchQuote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	endpoint := fmt.Sprintf(
		"%s/v7/finance/quote?symbols=%s",
		c.quoteBaseURL,
		url.QueryEscape(strings.Join(symbols, ",")),
	)

	var response batchQuoteResponse
	if err := c.queryJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if response.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote source error: %s", *response.QuoteResponse.Error)
	}

	quotes := make([]BatchQuote, 0, len(response.QuoteResponse.Result))
	for _, r := range response.QuoteResponse.Result {
		if r.Symbol == "" || r.RegularMarketPrice <= 0 {
			continue
		}
		quotes = append(quotes, BatchQuote{Symbol: r.Symbol, Price: r.RegularMarketPrice})
	}

	return quotes, nil
}

// SingleQuote fetches the current price for one symbol from the fallback
// endpoint. The regular market price is preferred; the previous close is
// used when the market price is absent. Returns an error when neither
// yields a positive price.
func (c *Client) SingleQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&range=1d",
		c.quoteBaseURL,
		url.PathEscape(symbol),
	)

	var response chartResponse
	if err := c.queryJSON(ctx, endpoint, &response); err != nil {
		return 0, err
	}
	if response.Chart.Error != nil {
		return 0, fmt.Errorf("quote source error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return 0, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	meta := response.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price <= 0 {
		price = meta.PreviousClose
	}
	if price <= 0 {
		return 0, fmt.Errorf("no usable price for symbol %s", symbol)
	}

	return price, nil
}

// ChartHistory fetches the daily close series for one symbol over the given
// range. The series is sorted ascending by date; days with a missing or
// non-positive close are dropped, so the result may be sparse.
func (c *Client) ChartHistory(ctx context.Context, symbol string, rng model.HistoryRange) ([]model.HistoryPoint, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.historyBaseURL,
		url.PathEscape(symbol),
		rng,
	)

	var response chartResponse
	if err := c.queryJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("history source error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no price data returned for symbol %s", symbol)
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no close prices returned for symbol %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for symbol %s", symbol)
	}

	points := make([]model.HistoryPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, model.HistoryPoint{
			Symbol: symbol,
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:  *closes[i],
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points, nil
}

// queryJSON executes one throttled, timeout-bounded GET against the upstream
// and decodes the JSON body into out. Non-2xx statuses are errors.
func (c *Client) queryJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from market data source", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode market data response: %w", err)
	}

	return nil
}
