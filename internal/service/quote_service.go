package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/marketdata"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
	"github.com/mverbeek/portfolio-valuation-engine/internal/pricecache"
)

// MarketDataClient is the subset of the market-data client the engine
// services depend on. Satisfied by *marketdata.Client and by test mocks.
type MarketDataClient interface {
	BatchQuotes(ctx context.Context, symbols []string) ([]marketdata.BatchQuote, error)
	SingleQuote(ctx context.Context, symbol string) (float64, error)
	ChartHistory(ctx context.Context, symbol string, rng model.HistoryRange) ([]model.HistoryPoint, error)
}

// QuoteService resolves best-effort current prices per symbol using a tiered
// strategy: cache, then one batch request, then bounded per-symbol fallback
// requests, then a market-suffix retry for bare symbols.
//
// Upstream failures never abort a resolution call. Failed symbols are simply
// absent from the result map; callers must treat absence as "unknown",
// never as zero.
type QuoteService struct {
	client MarketDataClient
	cache  *pricecache.Cache
	mdCfg  config.MarketDataConfig
	ttl    config.CacheConfig
	log    zerolog.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(
	client MarketDataClient,
	cache *pricecache.Cache,
	mdCfg config.MarketDataConfig,
	ttl config.CacheConfig,
	log zerolog.Logger,
) *QuoteService {
	return &QuoteService{
		client: client,
		cache:  cache,
		mdCfg:  mdCfg,
		ttl:    ttl,
		log:    log.With().Str("component", "quotes").Logger(),
	}
}

// ResolveQuotes returns a price per symbol for every symbol it managed to
// resolve. The returned map may be partial or empty; it is never nil and the
// method never returns an error for upstream trouble.
func (s *QuoteService) ResolveQuotes(ctx context.Context, symbols []string) map[string]float64 {
	resolved := make(map[string]float64)

	unresolved := make([]string, 0, len(symbols))
	seen := make(map[string]bool)
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		if quote, ok := s.cache.GetQuote(symbol); ok {
			resolved[symbol] = quote.Price
			continue
		}
		unresolved = append(unresolved, symbol)
	}

	if len(unresolved) == 0 {
		return resolved
	}

	unresolved = s.resolveBatch(ctx, unresolved, resolved)
	if len(unresolved) == 0 {
		return resolved
	}

	s.resolveFallback(ctx, unresolved, resolved)

	return resolved
}

// resolveBatch runs the batch tier for all given symbols and returns those
// still unresolved. A failing batch call degrades the whole tier but is not
// fatal: every symbol moves on to the fallback tier.
func (s *QuoteService) resolveBatch(ctx context.Context, symbols []string, resolved map[string]float64) []string {
	quotes, err := s.client.BatchQuotes(ctx, symbols)
	if err != nil {
		s.log.Warn().Err(err).Int("symbols", len(symbols)).Msg("batch quote tier failed")
		return symbols
	}

	for _, quote := range quotes {
		if quote.Price <= 0 {
			continue
		}
		resolved[quote.Symbol] = quote.Price
		s.cacheQuote(quote.Symbol, quote.Price, model.SourceBatch)
	}

	remaining := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if _, ok := resolved[symbol]; !ok {
			remaining = append(remaining, symbol)
		}
	}
	return remaining
}

// resolveFallback fans out per-symbol fallback lookups, bounded by the
// configured concurrency limit. Each worker handles its own failures, so the
// group always joins cleanly with whatever subset resolved.
func (s *QuoteService) resolveFallback(ctx context.Context, symbols []string, resolved map[string]float64) {
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.mdCfg.FetchConcurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			price, err := s.client.SingleQuote(ctx, symbol)
			if err == nil && price > 0 {
				s.cacheQuote(symbol, price, model.SourceFallback)
				mu.Lock()
				resolved[symbol] = price
				mu.Unlock()
				return nil
			}

			// Market-suffix retry for bare symbols. A hit is recorded under
			// both keys since downstream code may reference either.
			suffixed, ok := s.suffixCandidate(symbol)
			if !ok {
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("quote unresolved")
				return nil
			}

			price, err = s.client.SingleQuote(ctx, suffixed)
			if err != nil || price <= 0 {
				s.log.Warn().Err(err).Str("symbol", symbol).Str("retry", suffixed).Msg("quote unresolved")
				return nil
			}

			s.cacheQuote(symbol, price, model.SourceFallback)
			s.cacheQuote(suffixed, price, model.SourceFallback)
			mu.Lock()
			resolved[symbol] = price
			resolved[suffixed] = price
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
}

// suffixCandidate returns the suffixed form of a bare symbol, or false when
// the symbol already carries a venue suffix or no suffix is configured.
func (s *QuoteService) suffixCandidate(symbol string) (string, bool) {
	if s.mdCfg.MarketSuffix == "" || strings.Contains(symbol, ".") {
		return "", false
	}
	return symbol + s.mdCfg.MarketSuffix, true
}

func (s *QuoteService) cacheQuote(symbol string, price float64, source model.QuoteSource) {
	ttl := s.ttl.BatchQuoteTTL
	if source == model.SourceFallback {
		ttl = s.ttl.FallbackQuoteTTL
	}

	s.cache.SetQuote(model.Quote{
		Symbol:    symbol,
		Price:     price,
		FetchedAt: time.Now().UTC(),
		Source:    source,
	}, ttl)
}
