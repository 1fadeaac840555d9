package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/marketdata"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// ErrMockUnavailable is the default error for mock endpoints with no data configured.
var ErrMockUnavailable = errors.New("mock: no data configured")

// MockMarketDataClient is a mock implementation of the market-data client
// for testing. It returns predefined data instead of making HTTP calls and
// counts calls per endpoint so tests can assert on network usage.
type MockMarketDataClient struct {
	mu sync.Mutex

	// BatchPrices is returned by BatchQuotes; nil means the batch tier fails.
	BatchPrices map[string]float64
	// SinglePrices is consulted by SingleQuote per symbol; missing symbols error.
	SinglePrices map[string]float64
	// Histories is consulted by ChartHistory per symbol; missing symbols error.
	Histories map[string][]model.HistoryPoint

	BatchCalls   int
	SingleCalls  map[string]int
	HistoryCalls map[string]int
}

// NewMockMarketDataClient creates an empty mock. Configure the maps to make
// tiers succeed.
func NewMockMarketDataClient() *MockMarketDataClient {
	return &MockMarketDataClient{
		SinglePrices: make(map[string]float64),
		Histories:    make(map[string][]model.HistoryPoint),
		SingleCalls:  make(map[string]int),
		HistoryCalls: make(map[string]int),
	}
}

// BatchQuotes returns the configured batch prices, or an error when the
// batch tier is configured to fail (BatchPrices nil).
func (m *MockMarketDataClient) BatchQuotes(_ context.Context, symbols []string) ([]marketdata.BatchQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchCalls++
	if m.BatchPrices == nil {
		return nil, ErrMockUnavailable
	}

	quotes := []marketdata.BatchQuote{}
	for _, symbol := range symbols {
		if price, ok := m.BatchPrices[symbol]; ok {
			quotes = append(quotes, marketdata.BatchQuote{Symbol: symbol, Price: price})
		}
	}
	return quotes, nil
}

// SingleQuote returns the configured fallback price for a symbol.
func (m *MockMarketDataClient) SingleQuote(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SingleCalls[symbol]++
	price, ok := m.SinglePrices[symbol]
	if !ok {
		return 0, ErrMockUnavailable
	}
	return price, nil
}

// ChartHistory returns the configured history series for a symbol.
func (m *MockMarketDataClient) ChartHistory(_ context.Context, symbol string, _ model.HistoryRange) ([]model.HistoryPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HistoryCalls[symbol]++
	points, ok := m.Histories[symbol]
	if !ok {
		return nil, ErrMockUnavailable
	}
	return points, nil
}

// Point builds a HistoryPoint for mock series.
func Point(symbol, date string, close float64) model.HistoryPoint {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.HistoryPoint{Symbol: symbol, Date: parsed.UTC(), Close: close}
}
