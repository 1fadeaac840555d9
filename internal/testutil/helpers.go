package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/pricecache"
	"github.com/mverbeek/portfolio-valuation-engine/internal/repository"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// TestMarketDataConfig returns market-data settings suitable for tests:
// small fan-out, short timeouts, the ".AS" market suffix.
func TestMarketDataConfig() config.MarketDataConfig {
	return config.MarketDataConfig{
		MarketSuffix:      ".AS",
		FetchConcurrency:  4,
		RequestTimeout:    2 * time.Second,
		RequestsPerSecond: 100,
	}
}

// TestCacheConfig returns cache freshness windows suitable for tests.
func TestCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		BatchQuoteTTL:    2 * time.Minute,
		FallbackQuoteTTL: 5 * time.Minute,
	}
}

// NewTestQuoteService wires a QuoteService around the given mock client with
// a fresh cache and a silenced logger.
func NewTestQuoteService(t *testing.T, client service.MarketDataClient) *service.QuoteService {
	t.Helper()
	return service.NewQuoteService(client, pricecache.New(), TestMarketDataConfig(), TestCacheConfig(), zerolog.Nop())
}

// NewTestHistoryService wires a HistoryService around the given mock client
// with a fresh cache and a silenced logger.
func NewTestHistoryService(t *testing.T, client service.MarketDataClient) *service.HistoryService {
	t.Helper()
	return service.NewHistoryService(client, pricecache.New(), TestMarketDataConfig(), zerolog.Nop())
}

// NewTestValuationService wires the full engine (repositories, ledger,
// quote/history services, aggregator) against the given database and mock
// market-data client.
func NewTestValuationService(t *testing.T, db *sql.DB, client service.MarketDataClient) *service.ValuationService {
	t.Helper()

	ledger := service.NewLedgerService()
	return service.NewValuationService(
		repository.NewPortfolioRepository(db),
		repository.NewTransactionRepository(db),
		ledger,
		NewTestQuoteService(t, client),
		NewTestHistoryService(t, client),
		service.NewNetWorthService(),
		service.NewAggregatorService(ledger),
	)
}
