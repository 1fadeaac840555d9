package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
	"github.com/mverbeek/portfolio-valuation-engine/internal/pricecache"
)

// HistoryService fetches per-symbol historical close series. Symbols are
// fetched independently and concurrently; one symbol's failure yields an
// empty series for that symbol and never blocks or invalidates the others.
type HistoryService struct {
	client MarketDataClient
	cache  *pricecache.Cache
	mdCfg  config.MarketDataConfig
	log    zerolog.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(
	client MarketDataClient,
	cache *pricecache.Cache,
	mdCfg config.MarketDataConfig,
	log zerolog.Logger,
) *HistoryService {
	return &HistoryService{
		client: client,
		cache:  cache,
		mdCfg:  mdCfg,
		log:    log.With().Str("component", "history").Logger(),
	}
}

// FetchHistory returns the close-price series per symbol for the given
// range. Every requested symbol has an entry in the result; symbols that
// failed upstream map to an empty series.
func (s *HistoryService) FetchHistory(ctx context.Context, symbols []string, rng model.HistoryRange) map[string][]model.HistoryPoint {
	histories := make(map[string][]model.HistoryPoint)

	pending := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if _, ok := histories[symbol]; ok {
			continue
		}

		if points, ok := s.cache.GetHistory(symbol, rng); ok {
			histories[symbol] = points
			continue
		}
		histories[symbol] = nil
		pending = append(pending, symbol)
	}

	if len(pending) == 0 {
		return histories
	}

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.mdCfg.FetchConcurrency)

	for _, symbol := range pending {
		symbol := symbol
		g.Go(func() error {
			points, err := s.client.ChartHistory(ctx, symbol, rng)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", symbol).Str("range", string(rng)).Msg("history fetch failed")
				return nil
			}

			s.cache.SetHistory(symbol, rng, points, historyTTL(rng))
			mu.Lock()
			histories[symbol] = points
			mu.Unlock()
			return nil
		})
	}

	// Workers absorb their own failures; Wait only joins them.
	_ = g.Wait()

	return histories
}

// historyTTL returns the cache freshness window for a range. Short ranges
// refresh often; "max" is heavily cached.
func historyTTL(rng model.HistoryRange) time.Duration {
	switch rng {
	case model.Range1Mo:
		return 10 * time.Minute
	case model.Range3Mo:
		return 30 * time.Minute
	case model.Range6Mo:
		return time.Hour
	case model.Range1Y:
		return 4 * time.Hour
	case model.RangeMax:
		return 24 * time.Hour
	default:
		return 10 * time.Minute
	}
}
