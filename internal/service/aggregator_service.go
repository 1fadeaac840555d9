package service

import (
	"sort"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// AggregatorService combines per-portfolio valuations into a global summary:
// net worth, allocation breakdown and dividend-by-month history.
// It is a read-only projection over its inputs, safe to call on every page
// load; inputs are never mutated.
type AggregatorService struct {
	ledger *LedgerService
}

// NewAggregatorService creates a new AggregatorService.
func NewAggregatorService(ledger *LedgerService) *AggregatorService {
	return &AggregatorService{ledger: ledger}
}

// Aggregate values every portfolio's positions at the resolved quotes and
// combines them into a GlobalSummary. Positions whose ticker is absent from
// the quote map are valued at zero, which understates the summary; callers
// should surface "quote unavailable" per asset rather than report a loss.
func (s *AggregatorService) Aggregate(
	portfolios []model.Portfolio,
	transactions []model.Transaction,
	quotes map[string]float64,
) model.GlobalSummary {
	byPortfolio := make(map[string][]model.Transaction)
	for _, tx := range transactions {
		byPortfolio[tx.PortfolioID] = append(byPortfolio[tx.PortfolioID], tx)
	}

	summary := model.GlobalSummary{
		Portfolios: make([]model.PortfolioSummary, 0, len(portfolios)),
		Allocation: []model.AllocationEntry{},
		Dividends:  []model.DividendMonth{},
	}

	for _, portfolio := range portfolios {
		ps := s.summarizePortfolio(portfolio, byPortfolio[portfolio.ID], quotes)
		summary.Invested += ps.Invested
		summary.CurrentValue += ps.CurrentValue
		summary.Portfolios = append(summary.Portfolios, ps)
	}

	summary.Invested = round(summary.Invested)
	summary.CurrentValue = round(summary.CurrentValue)
	summary.Profit = round(summary.CurrentValue - summary.Invested)
	if summary.Invested > 0 {
		summary.ProfitPercentage = round(summary.Profit / summary.Invested * 100)
	}

	summary.Allocation = s.allocation(transactions, quotes)
	summary.Dividends = s.dividendHistory(transactions)

	return summary
}

// summarizePortfolio values one portfolio's positions at the resolved quotes.
func (s *AggregatorService) summarizePortfolio(
	portfolio model.Portfolio,
	transactions []model.Transaction,
	quotes map[string]float64,
) model.PortfolioSummary {
	var invested, current float64
	for _, position := range s.ledger.ComputePositions(transactions) {
		invested += position.CostBasis
		current += position.Quantity * quotes[position.Ticker]
	}

	ps := model.PortfolioSummary{
		ID:           portfolio.ID,
		Name:         portfolio.Name,
		Invested:     round(invested),
		CurrentValue: round(current),
	}
	ps.Profit = round(ps.CurrentValue - ps.Invested)
	if ps.Invested > 0 {
		ps.ProfitPercentage = round(ps.Profit / ps.Invested * 100)
	}

	return ps
}

// allocation builds the cross-portfolio allocation breakdown from the union
// of all transactions, sorted descending by value.
func (s *AggregatorService) allocation(transactions []model.Transaction, quotes map[string]float64) []model.AllocationEntry {
	positions := s.ledger.ComputePositions(transactions)

	var total float64
	entries := make([]model.AllocationEntry, 0, len(positions))
	for _, position := range positions {
		value := position.Quantity * quotes[position.Ticker]
		total += value
		entries = append(entries, model.AllocationEntry{
			Ticker: position.Ticker,
			Value:  value,
		})
	}

	for i := range entries {
		entries[i].Value = round(entries[i].Value)
		if total > 0 {
			entries[i].Percentage = entries[i].Value / total * 100
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Ticker < entries[j].Ticker
	})

	return entries
}

// dividendHistory buckets dividend cash flows by calendar month, sorted
// ascending by month key.
func (s *AggregatorService) dividendHistory(transactions []model.Transaction) []model.DividendMonth {
	byMonth := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Kind != model.KindDividend {
			continue
		}
		month := tx.Date.Format("2006-01")
		byMonth[month] += tx.Quantity * tx.UnitPrice
	}

	months := make([]model.DividendMonth, 0, len(byMonth))
	for month, amount := range byMonth {
		months = append(months, model.DividendMonth{
			Month:  month,
			Amount: round(amount),
		})
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})

	return months
}
