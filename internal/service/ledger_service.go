package service

import (
	"sort"
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// positionEpsilon absorbs floating-point drift when deciding whether a
// position is closed. Positions at or below this quantity are not reported.
const positionEpsilon = 1e-6

// LedgerService replays transaction ledgers into derived positions.
// All methods are pure functions of their inputs: no hidden state, identical
// output for identical input, inputs never mutated.
type LedgerService struct{}

// NewLedgerService creates a new LedgerService.
func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// PositionAccumulator carries the running holding state for one ticker
// during ledger replay.
type PositionAccumulator struct {
	Ticker    string
	Quantity  float64
	CostBasis float64
}

// Apply folds one transaction into the accumulator.
//
// Buys add quantity and cost (fees included). Sells remove quantity at the
// current average price, so a partial sell never moves the average price;
// when the sale empties or oversells the position the cost basis resets to
// zero. A sell against a zero or negative quantity leaves cost basis
// untouched. Splits scale quantity by the factor and leave cost basis alone.
// Dividends are cash-flow events and do not touch the position.
func (a *PositionAccumulator) Apply(tx model.Transaction) {
	switch tx.Kind {
	case model.KindBuy:
		a.Quantity += tx.Quantity
		a.CostBasis += tx.Quantity*tx.UnitPrice + tx.Fees
	case model.KindSell:
		if a.Quantity > 0 {
			avg := a.CostBasis / a.Quantity
			a.Quantity -= tx.Quantity
			if a.Quantity > 0 {
				a.CostBasis -= tx.Quantity * avg
			} else {
				a.CostBasis = 0
			}
		} else {
			a.Quantity -= tx.Quantity
		}
	case model.KindSplit:
		// Quantity holds the split factor, not a share count.
		if a.Quantity > 0 {
			a.Quantity *= tx.Quantity
		}
	case model.KindDividend:
		// Tracked separately as a cash flow; no position effect.
	}
}

// Position converts the accumulated state into a reportable position.
func (a *PositionAccumulator) Position() model.Position {
	p := model.Position{
		Ticker:    a.Ticker,
		Quantity:  a.Quantity,
		CostBasis: a.CostBasis,
	}
	if a.Quantity > 0 {
		p.AveragePrice = a.CostBasis / a.Quantity
	}
	return p
}

// ComputePositions replays the full transaction list into current positions.
// Closed positions (quantity at or below epsilon) are dropped. Results are
// sorted by ticker for deterministic output.
func (s *LedgerService) ComputePositions(transactions []model.Transaction) []model.Position {
	accumulators := s.accumulate(transactions)

	positions := make([]model.Position, 0, len(accumulators))
	for _, acc := range accumulators {
		if acc.Quantity <= positionEpsilon {
			continue
		}
		positions = append(positions, acc.Position())
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Ticker < positions[j].Ticker
	})

	return positions
}

// ComputePositionsAsOf replays only the transactions dated on or before the
// given date ("as-of" replay). Used for historical valuations.
func (s *LedgerService) ComputePositionsAsOf(transactions []model.Transaction, date time.Time) []model.Position {
	prefix := make([]model.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if !tx.Date.After(date) {
			prefix = append(prefix, tx)
		}
	}
	return s.ComputePositions(prefix)
}

// accumulate replays transactions in date order (stable for same-day events,
// preserving insertion order) into one accumulator per ticker. The input
// slice is copied before sorting so callers never observe reordering.
func (s *LedgerService) accumulate(transactions []model.Transaction) map[string]*PositionAccumulator {
	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	accumulators := make(map[string]*PositionAccumulator)
	for _, tx := range ordered {
		acc, ok := accumulators[tx.Ticker]
		if !ok {
			acc = &PositionAccumulator{Ticker: tx.Ticker}
			accumulators[tx.Ticker] = acc
		}
		acc.Apply(tx)
	}

	return accumulators
}
