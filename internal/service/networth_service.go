package service

import (
	"sort"
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// NetWorthService reconstructs the historical portfolio value series by
// replaying the transaction ledger against per-asset price histories.
type NetWorthService struct{}

// NewNetWorthService creates a new NetWorthService.
func NewNetWorthService() *NetWorthService {
	return &NetWorthService{}
}

// symbolCursor tracks forward-fill state for one asset's price series
// across the date loop.
type symbolCursor struct {
	points    []model.HistoryPoint
	next      int
	lastClose float64
	hasClose  bool
}

// advance consumes points dated on or before d, keeping the most recent
// close for forward-filling.
func (c *symbolCursor) advance(d time.Time) {
	for c.next < len(c.points) && !c.points[c.next].Date.After(d) {
		c.lastClose = c.points[c.next].Close
		c.hasClose = true
		c.next++
	}
}

// ReconstructNetWorth merges all per-symbol histories onto one sorted
// calendar and emits, per calendar date, the portfolio value and the net
// invested capital as of that date.
//
// The calendar is the union of dates across all histories; dates where no
// asset has a price are skipped entirely, never interpolated. Dates before
// the first transaction emit nothing. Held assets without a price on a date
// use the most recent prior close (forward-fill); an asset with no prior
// point at all contributes zero to that date's value, which under-values
// early dates for assets whose history starts after their first trade.
//
// Replay state carries forward date-to-date: only transactions newer than
// the previous calendar date are folded in per iteration.
func (s *NetWorthService) ReconstructNetWorth(transactions []model.Transaction, histories map[string][]model.HistoryPoint) []model.NetWorthPoint {
	calendar := mergeCalendar(histories)
	if len(calendar) == 0 || len(transactions) == 0 {
		return []model.NetWorthPoint{}
	}

	ordered := make([]model.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	cursors := make(map[string]*symbolCursor, len(histories))
	for symbol, points := range histories {
		cursors[symbol] = &symbolCursor{points: points}
	}

	accumulators := make(map[string]*PositionAccumulator)
	var invested float64
	txIndex := 0

	series := make([]model.NetWorthPoint, 0, len(calendar))
	for _, d := range calendar {
		for txIndex < len(ordered) && !ordered[txIndex].Date.After(d) {
			tx := ordered[txIndex]
			txIndex++

			acc, ok := accumulators[tx.Ticker]
			if !ok {
				acc = &PositionAccumulator{Ticker: tx.Ticker}
				accumulators[tx.Ticker] = acc
			}
			acc.Apply(tx)

			switch tx.Kind {
			case model.KindBuy:
				invested += tx.Quantity*tx.UnitPrice + tx.Fees
			case model.KindSell:
				// Fees still reduce net proceeds.
				invested += -tx.Quantity*tx.UnitPrice + tx.Fees
			}
		}

		// No portfolio existed yet on this date.
		if txIndex == 0 {
			continue
		}

		var value float64
		for ticker, acc := range accumulators {
			if acc.Quantity <= positionEpsilon {
				continue
			}
			cursor, ok := cursors[ticker]
			if !ok {
				continue
			}
			cursor.advance(d)
			if cursor.hasClose {
				value += acc.Quantity * cursor.lastClose
			}
		}

		series = append(series, model.NetWorthPoint{
			Date:     d,
			Value:    value,
			Invested: invested,
		})
	}

	return series
}

// mergeCalendar collects the union of all dates present across all fetched
// histories, sorted ascending.
func mergeCalendar(histories map[string][]model.HistoryPoint) []time.Time {
	seen := make(map[time.Time]bool)
	for _, points := range histories {
		for _, p := range points {
			seen[p.Date] = true
		}
	}

	calendar := make([]time.Time, 0, len(seen))
	for d := range seen {
		calendar = append(calendar, d)
	}
	sort.Slice(calendar, func(i, j int) bool {
		return calendar[i].Before(calendar[j])
	})

	return calendar
}
