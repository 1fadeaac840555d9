package service

import (
	"context"
	"fmt"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
	"github.com/mverbeek/portfolio-valuation-engine/internal/repository"
)

// ValuationService coordinates the transaction store, the ledger, the quote
// resolver, the history fetcher and the aggregator into the read operations
// the dashboard consumes. All results are recomputed per call; the only
// state reused across calls lives in the price caches.
type ValuationService struct {
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	ledger          *LedgerService
	quotes          *QuoteService
	history         *HistoryService
	netWorth        *NetWorthService
	aggregator      *AggregatorService
}

// NewValuationService creates a new ValuationService with the provided dependencies.
func NewValuationService(
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	ledger *LedgerService,
	quotes *QuoteService,
	history *HistoryService,
	netWorth *NetWorthService,
	aggregator *AggregatorService,
) *ValuationService {
	return &ValuationService{
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		quotes:          quotes,
		history:         history,
		netWorth:        netWorth,
		aggregator:      aggregator,
	}
}

// GetPositions computes the current positions of one portfolio and values
// them at resolved quotes. Positions whose quote did not resolve are
// returned with PriceResolved=false instead of a zero valuation presented
// as fact.
func (s *ValuationService) GetPositions(ctx context.Context, portfolioID string) ([]model.ValuedPosition, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactionsForPortfolio(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	positions := s.ledger.ComputePositions(transactions)
	quotes := s.quotes.ResolveQuotes(ctx, tickersOf(positions))

	valued := make([]model.ValuedPosition, len(positions))
	for i, position := range positions {
		vp := model.ValuedPosition{Position: position}
		if price, ok := quotes[position.Ticker]; ok {
			vp.Price = price
			vp.MarketValue = round(position.Quantity * price)
			vp.UnrealizedGain = round(position.Quantity*price - position.CostBasis)
			vp.PriceResolved = true
		}
		valued[i] = vp
	}

	return valued, nil
}

// GetGlobalSummary aggregates all active portfolios into the global
// net-worth summary, valued at whatever subset of quotes resolved.
func (s *ValuationService) GetGlobalSummary(ctx context.Context) (model.GlobalSummary, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(false)
	if err != nil {
		return model.GlobalSummary{}, fmt.Errorf("failed to load portfolios: %w", err)
	}

	transactions, err := s.transactionRepo.GetAllTransactions()
	if err != nil {
		return model.GlobalSummary{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	quotes := s.quotes.ResolveQuotes(ctx, tickersOf(s.ledger.ComputePositions(transactions)))

	return s.aggregator.Aggregate(portfolios, transactions, quotes), nil
}

// GetNetWorthHistory reconstructs the historical net-worth series over the
// given range from the full ledger and per-asset price histories.
func (s *ValuationService) GetNetWorthHistory(ctx context.Context, rng model.HistoryRange) ([]model.NetWorthPoint, error) {
	transactions, err := s.transactionRepo.GetAllTransactions()
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(transactions) == 0 {
		return []model.NetWorthPoint{}, nil
	}

	tickers := make([]string, 0)
	seen := make(map[string]bool)
	for _, tx := range transactions {
		if !seen[tx.Ticker] {
			seen[tx.Ticker] = true
			tickers = append(tickers, tx.Ticker)
		}
	}

	histories := s.history.FetchHistory(ctx, tickers, rng)

	return s.netWorth.ReconstructNetWorth(transactions, histories), nil
}

// RefreshHeldQuotes re-resolves quotes for every ticker in the ledger so the
// cache stays warm between page loads. Used by the background refresh job.
func (s *ValuationService) RefreshHeldQuotes(ctx context.Context) (int, error) {
	tickers, err := s.transactionRepo.GetDistinctTickers()
	if err != nil {
		return 0, fmt.Errorf("failed to load tickers: %w", err)
	}
	if len(tickers) == 0 {
		return 0, nil
	}

	resolved := s.quotes.ResolveQuotes(ctx, tickers)
	return len(resolved), nil
}

func tickersOf(positions []model.Position) []string {
	tickers := make([]string, len(positions))
	for i, position := range positions {
		tickers[i] = position.Ticker
	}
	return tickers
}
