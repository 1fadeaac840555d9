package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/handlers"
	"github.com/mverbeek/portfolio-valuation-engine/internal/testutil"
)

// TestQuoteHandler_Quotes tests the raw quote resolution endpoint.
func TestQuoteHandler_Quotes(t *testing.T) {
	t.Run("returns 400 when symbols is missing", func(t *testing.T) {
		handler := handlers.NewQuoteHandler(testutil.NewTestQuoteService(t, testutil.NewMockMarketDataClient()))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/quotes", nil)
		rec := httptest.NewRecorder()
		handler.Quotes(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("resolves a comma-separated list", func(t *testing.T) {
		mock := testutil.NewMockMarketDataClient()
		mock.BatchPrices = map[string]float64{"ASML": 700, "SHEL": 33}
		handler := handlers.NewQuoteHandler(testutil.NewTestQuoteService(t, mock))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/quotes", map[string]string{
			"symbols": "ASML,SHEL",
		})
		rec := httptest.NewRecorder()
		handler.Quotes(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var quotes map[string]float64
		if err := json.NewDecoder(rec.Body).Decode(&quotes); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if quotes["ASML"] != 700 || quotes["SHEL"] != 33 {
			t.Errorf("Expected both quotes resolved, got %v", quotes)
		}
	})

	t.Run("omits unresolved symbols from the response", func(t *testing.T) {
		mock := testutil.NewMockMarketDataClient()
		mock.BatchPrices = map[string]float64{"ASML": 700}
		handler := handlers.NewQuoteHandler(testutil.NewTestQuoteService(t, mock))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/quotes", map[string]string{
			"symbols": "ASML,GONE.L",
		})
		rec := httptest.NewRecorder()
		handler.Quotes(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 despite partial resolution, got %d", rec.Code)
		}

		var quotes map[string]float64
		if err := json.NewDecoder(rec.Body).Decode(&quotes); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := quotes["GONE.L"]; ok {
			t.Error("Expected the unresolved symbol to be absent")
		}
		if quotes["ASML"] != 700 {
			t.Errorf("Expected ASML 700, got %v", quotes)
		}
	})
}
