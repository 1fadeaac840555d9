package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/marketdata"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

func newTestClient(serverURL string) *marketdata.Client {
	return marketdata.NewClient(config.MarketDataConfig{
		QuoteBaseURL:      serverURL,
		HistoryBaseURL:    serverURL,
		RequestTimeout:    2 * time.Second,
		RequestsPerSecond: 1000,
	})
}

// TestClient_BatchQuotes tests parsing of the multi-symbol quote endpoint.
//
// WHY: The upstream response shape is outside our control. Missing symbols
// and zero prices must be dropped here so downstream tiers can retry them,
// not valued at zero.
func TestClient_BatchQuotes(t *testing.T) {
	ctx := context.Background()

	t.Run("parses prices per symbol", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/v7/finance/quote") {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{
				"quoteResponse": {
					"result": [
						{"symbol": "ASML", "regularMarketPrice": 700.5},
						{"symbol": "SHEL", "regularMarketPrice": 33.1}
					],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		quotes, err := newTestClient(server.URL).BatchQuotes(ctx, []string{"ASML", "SHEL"})
		if err != nil {
			t.Fatalf("BatchQuotes failed: %v", err)
		}
		if len(quotes) != 2 {
			t.Fatalf("Expected 2 quotes, got %d", len(quotes))
		}
		if quotes[0].Symbol != "ASML" || quotes[0].Price != 700.5 {
			t.Errorf("Expected ASML 700.5, got %v", quotes[0])
		}
	})

	t.Run("drops entries with non-positive prices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"quoteResponse": {
					"result": [
						{"symbol": "ASML", "regularMarketPrice": 700.5},
						{"symbol": "DEAD", "regularMarketPrice": 0}
					],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		quotes, err := newTestClient(server.URL).BatchQuotes(ctx, []string{"ASML", "DEAD"})
		if err != nil {
			t.Fatalf("BatchQuotes failed: %v", err)
		}
		if len(quotes) != 1 || quotes[0].Symbol != "ASML" {
			t.Errorf("Expected only ASML, got %v", quotes)
		}
	})

	t.Run("returns error on non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).BatchQuotes(ctx, []string{"ASML"})
		if err == nil {
			t.Error("Expected error on 429 response")
		}
	})

	t.Run("skips the request entirely for no symbols", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Expected no request for an empty symbol list")
		}))
		defer server.Close()

		quotes, err := newTestClient(server.URL).BatchQuotes(ctx, nil)
		if err != nil {
			t.Fatalf("BatchQuotes failed: %v", err)
		}
		if len(quotes) != 0 {
			t.Errorf("Expected no quotes, got %v", quotes)
		}
	})
}

// TestClient_SingleQuote tests the per-symbol fallback endpoint.
//
// WHY: Thinly traded symbols often come back without a regular market price.
// The previous close keeps them resolvable instead of dropping out of the
// valuation.
func TestClient_SingleQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the regular market price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"chart": {
					"result": [{"meta": {"regularMarketPrice": 27.8, "previousClose": 27.1}}],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		price, err := newTestClient(server.URL).SingleQuote(ctx, "PHIA.AS")
		if err != nil {
			t.Fatalf("SingleQuote failed: %v", err)
		}
		if price != 27.8 {
			t.Errorf("Expected 27.8, got %v", price)
		}
	})

	t.Run("falls back to the previous close", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"chart": {
					"result": [{"meta": {"previousClose": 27.1}}],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		price, err := newTestClient(server.URL).SingleQuote(ctx, "PHIA.AS")
		if err != nil {
			t.Fatalf("SingleQuote failed: %v", err)
		}
		if price != 27.1 {
			t.Errorf("Expected 27.1, got %v", price)
		}
	})

	t.Run("errors when no usable price exists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [{"meta": {}}], "error": null}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).SingleQuote(ctx, "GONE")
		if err == nil {
			t.Error("Expected error for a symbol without prices")
		}
	})

	t.Run("errors on upstream error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [], "error": "Not Found"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).SingleQuote(ctx, "GONE")
		if err == nil {
			t.Error("Expected error from upstream error payload")
		}
	})
}

// TestClient_ChartHistory tests parsing of the daily close series.
//
// WHY: Chart payloads carry null closes for market holidays. They must be
// filtered here so the net-worth replay only sees real trading days.
func TestClient_ChartHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("parses and sorts the close series", func(t *testing.T) {
		// 2024-01-03 and 2024-01-02 00:00 UTC, deliberately out of order.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"chart": {
					"result": [{
						"meta": {"regularMarketPrice": 110},
						"timestamp": [1704240000, 1704153600],
						"indicators": {"quote": [{"close": [110.0, 100.0]}]}
					}],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		points, err := newTestClient(server.URL).ChartHistory(ctx, "ASML", model.Range1Mo)
		if err != nil {
			t.Fatalf("ChartHistory failed: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("Expected 2 points, got %d", len(points))
		}
		want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		if !points[0].Date.Equal(want) || points[0].Close != 100 {
			t.Errorf("Expected 2024-01-02 close 100 first, got %v", points[0])
		}
	})

	t.Run("drops null and non-positive closes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"chart": {
					"result": [{
						"meta": {},
						"timestamp": [1704153600, 1704240000, 1704326400],
						"indicators": {"quote": [{"close": [100.0, null, 0]}]}
					}],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		points, err := newTestClient(server.URL).ChartHistory(ctx, "ASML", model.Range1Mo)
		if err != nil {
			t.Fatalf("ChartHistory failed: %v", err)
		}
		if len(points) != 1 || points[0].Close != 100 {
			t.Errorf("Expected only the 100 close, got %v", points)
		}
	})

	t.Run("errors on mismatched timestamp and close lengths", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"chart": {
					"result": [{
						"meta": {},
						"timestamp": [1704153600, 1704240000],
						"indicators": {"quote": [{"close": [100.0]}]}
					}],
					"error": null
				}
			}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ChartHistory(ctx, "ASML", model.Range1Mo)
		if err == nil {
			t.Error("Expected error on mismatched lengths")
		}
	})

	t.Run("errors when the series is empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [{"meta": {}}], "error": null}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ChartHistory(ctx, "ASML", model.Range1Mo)
		if err == nil {
			t.Error("Expected error for an empty series")
		}
	})
}
