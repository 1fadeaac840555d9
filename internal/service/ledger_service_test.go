package service_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
	"github.com/mverbeek/portfolio-valuation-engine/internal/testutil"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// TestLedgerService_ComputePositions tests the core cost-basis accounting.
//
// WHY: The ledger is the foundation every valuation builds on. Partial sells
// must never move the average price and splits must scale quantity without
// touching cost basis, or every downstream profit figure is wrong.
func TestLedgerService_ComputePositions(t *testing.T) {
	svc := service.NewLedgerService()

	t.Run("partial sell removes shares at average price", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("ASML", model.KindBuy, 100, 10, "2024-01-02"),
			testutil.Tx("ASML", model.KindSell, 40, 12, "2024-02-01"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		p := positions[0]
		if !almostEqual(p.Quantity, 60) {
			t.Errorf("Expected quantity 60, got %v", p.Quantity)
		}
		if !almostEqual(p.CostBasis, 600) {
			t.Errorf("Expected cost basis 600, got %v", p.CostBasis)
		}
		if !almostEqual(p.AveragePrice, 10) {
			t.Errorf("Expected average price 10, got %v", p.AveragePrice)
		}
	})

	t.Run("split scales quantity and leaves cost basis unchanged", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("ASML", model.KindBuy, 10, 50, "2024-01-02"),
			testutil.Tx("ASML", model.KindSplit, 2, 0, "2024-02-01"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		p := positions[0]
		if !almostEqual(p.Quantity, 20) {
			t.Errorf("Expected quantity 20, got %v", p.Quantity)
		}
		if !almostEqual(p.CostBasis, 500) {
			t.Errorf("Expected cost basis 500, got %v", p.CostBasis)
		}
		if !almostEqual(p.AveragePrice, 25) {
			t.Errorf("Expected average price 25, got %v", p.AveragePrice)
		}
	})

	t.Run("closed position is dropped from the result", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("SHEL", model.KindBuy, 5, 30, "2024-01-02"),
			testutil.Tx("SHEL", model.KindSell, 5, 35, "2024-03-01"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(positions))
		}
	})

	t.Run("dividend does not affect quantity or cost basis", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("SHEL", model.KindBuy, 10, 30, "2024-01-02"),
			testutil.Tx("SHEL", model.KindDividend, 10, 0.5, "2024-02-01"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		if !almostEqual(positions[0].Quantity, 10) {
			t.Errorf("Expected quantity 10, got %v", positions[0].Quantity)
		}
		if !almostEqual(positions[0].CostBasis, 300) {
			t.Errorf("Expected cost basis 300, got %v", positions[0].CostBasis)
		}
	})

	t.Run("buy fees are part of the cost basis", func(t *testing.T) {
		tx := testutil.Tx("ASML", model.KindBuy, 10, 100, "2024-01-02")
		tx.Fees = 7.5

		positions := svc.ComputePositions([]model.Transaction{tx})

		if !almostEqual(positions[0].CostBasis, 1007.5) {
			t.Errorf("Expected cost basis 1007.5, got %v", positions[0].CostBasis)
		}
	})

	t.Run("split on an empty position is a no-op", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("ASML", model.KindSplit, 2, 0, "2024-01-02"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(positions))
		}
	})

	t.Run("is idempotent for the same input", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("ASML", model.KindBuy, 100, 10, "2024-01-02"),
			testutil.Tx("SHEL", model.KindBuy, 20, 30, "2024-01-03"),
			testutil.Tx("ASML", model.KindSell, 40, 12, "2024-02-01"),
			testutil.Tx("ASML", model.KindSplit, 3, 0, "2024-03-01"),
		}

		first := svc.ComputePositions(transactions)
		second := svc.ComputePositions(transactions)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected identical results, got %v and %v", first, second)
		}
	})

	t.Run("does not mutate the input slice order", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("ASML", model.KindSell, 40, 12, "2024-02-01"),
			testutil.Tx("ASML", model.KindBuy, 100, 10, "2024-01-02"),
		}

		svc.ComputePositions(transactions)

		if !transactions[0].Date.After(transactions[1].Date) {
			t.Error("Input slice was reordered")
		}
	})

	t.Run("results are sorted by ticker", func(t *testing.T) {
		transactions := []model.Transaction{
			testutil.Tx("SHEL", model.KindBuy, 5, 30, "2024-01-02"),
			testutil.Tx("ASML", model.KindBuy, 10, 100, "2024-01-02"),
		}

		positions := svc.ComputePositions(transactions)

		if len(positions) != 2 || positions[0].Ticker != "ASML" || positions[1].Ticker != "SHEL" {
			t.Errorf("Expected [ASML SHEL] order, got %v", positions)
		}
	})
}

// TestLedgerService_ComputePositionsAsOf tests the as-of prefix replay.
//
// WHY: Historical valuations depend on replaying only the transactions known
// at a given date. Including later transactions would rewrite history.
func TestLedgerService_ComputePositionsAsOf(t *testing.T) {
	svc := service.NewLedgerService()

	transactions := []model.Transaction{
		testutil.Tx("ASML", model.KindBuy, 100, 10, "2024-01-02"),
		testutil.Tx("ASML", model.KindSell, 40, 12, "2024-02-01"),
	}

	t.Run("excludes transactions after the cutoff", func(t *testing.T) {
		asOf := testutil.Tx("", model.KindBuy, 0, 0, "2024-01-15").Date

		positions := svc.ComputePositionsAsOf(transactions, asOf)

		if len(positions) != 1 || !almostEqual(positions[0].Quantity, 100) {
			t.Errorf("Expected quantity 100 as of Jan 15, got %v", positions)
		}
	})

	t.Run("includes transactions dated exactly on the cutoff", func(t *testing.T) {
		asOf := testutil.Tx("", model.KindBuy, 0, 0, "2024-02-01").Date

		positions := svc.ComputePositionsAsOf(transactions, asOf)

		if len(positions) != 1 || !almostEqual(positions[0].Quantity, 60) {
			t.Errorf("Expected quantity 60 as of Feb 1, got %v", positions)
		}
	})
}
