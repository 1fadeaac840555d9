package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// insertionCounter makes created_at strictly increasing across factory
// inserts so same-date transactions keep a deterministic insertion order.
var insertionCounter int64

// MakeID generates a unique ID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio().WithName("Broker A").Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        "Test Portfolio",
		Description: "Test description",
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
	}
}

// CreatePortfolio creates a portfolio with the given name and default values.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(portfolio.ID).
//	    WithTicker("ASML").
//	    Buy(10, 600).
//	    On("2024-03-01").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	Ticker      string
	Kind        model.TransactionKind
	Quantity    float64
	UnitPrice   float64
	Fees        float64
	Date        time.Time
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(portfolioID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Ticker:      "TEST",
		Kind:        model.KindBuy,
		Quantity:    10,
		UnitPrice:   100,
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

// WithTicker sets the asset ticker.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// Buy marks the transaction as a buy of the given quantity at the given price.
func (b *TransactionBuilder) Buy(quantity, unitPrice float64) *TransactionBuilder {
	b.Kind = model.KindBuy
	b.Quantity = quantity
	b.UnitPrice = unitPrice
	return b
}

// Sell marks the transaction as a sell of the given quantity at the given price.
func (b *TransactionBuilder) Sell(quantity, unitPrice float64) *TransactionBuilder {
	b.Kind = model.KindSell
	b.Quantity = quantity
	b.UnitPrice = unitPrice
	return b
}

// Dividend marks the transaction as a dividend payout: quantity units at the
// given per-unit amount.
func (b *TransactionBuilder) Dividend(quantity, perUnit float64) *TransactionBuilder {
	b.Kind = model.KindDividend
	b.Quantity = quantity
	b.UnitPrice = perUnit
	return b
}

// Split marks the transaction as a split with the given factor.
func (b *TransactionBuilder) Split(factor float64) *TransactionBuilder {
	b.Kind = model.KindSplit
	b.Quantity = factor
	b.UnitPrice = 0
	return b
}

// WithFees sets the transaction fees.
func (b *TransactionBuilder) WithFees(fees float64) *TransactionBuilder {
	b.Fees = fees
	return b
}

// On sets the transaction date from a "2006-01-02" string.
func (b *TransactionBuilder) On(date string) *TransactionBuilder {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(fmt.Sprintf("invalid test date %q: %v", date, err))
	}
	b.Date = parsed.UTC()
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(atomic.AddInt64(&insertionCounter, 1)) * time.Second)

	query := `
		INSERT INTO "transaction" (id, portfolio_id, ticker, kind, quantity, unit_price, fees, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.PortfolioID,
		b.Ticker,
		string(b.Kind),
		b.Quantity,
		b.UnitPrice,
		b.Fees,
		b.Date.Format("2006-01-02"),
		"",
		createdAt.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Ticker:      b.Ticker,
		Kind:        b.Kind,
		Quantity:    b.Quantity,
		UnitPrice:   b.UnitPrice,
		Fees:        b.Fees,
		Date:        b.Date,
		CreatedAt:   createdAt,
	}
}

// Tx builds an in-memory transaction without touching the database. Useful
// for exercising the pure ledger and aggregation functions.
func Tx(ticker string, kind model.TransactionKind, quantity, unitPrice float64, date string) model.Transaction {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(fmt.Sprintf("invalid test date %q: %v", date, err))
	}
	return model.Transaction{
		ID:        MakeID(),
		Ticker:    ticker,
		Kind:      kind,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Date:      parsed.UTC(),
	}
}
