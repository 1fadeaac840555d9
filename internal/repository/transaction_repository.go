package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mverbeek/portfolio-valuation-engine/internal/apperrors"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// The ledger is append-only: rows are created and deleted by the surrounding
// CRUD application, this engine only ever reads a snapshot per invocation.
// Tickers are normalized to upper case on read so they always match the
// symbol keys the quote and history services produce.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, portfolio_id, ticker, kind, quantity, unit_price, fees, date, notes, created_at`

// GetTransactionsForPortfolio retrieves all transactions owned by one portfolio,
// sorted by date ascending with insertion order breaking ties.
func (r *TransactionRepository) GetTransactionsForPortfolio(portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE portfolio_id = ?
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetAllTransactions retrieves the full ledger across every portfolio,
// sorted by date ascending with insertion order breaking ties.
func (r *TransactionRepository) GetAllTransactions() ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetDistinctTickers retrieves every ticker that appears in the ledger.
// Used by the quote refresh job to know which symbols to keep warm.
func (r *TransactionRepository) GetDistinctTickers() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT UPPER(TRIM(ticker)) AS ticker FROM "transaction" ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticker rows: %w", err)
	}

	return tickers, nil
}

// scanTransactions reads transaction rows into models, parsing the date
// columns, rejecting rows with an unknown kind and upper-casing tickers.
func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var kind, dateStr, createdAtStr string
		var notes sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.PortfolioID,
			&t.Ticker,
			&kind,
			&t.Quantity,
			&t.UnitPrice,
			&t.Fees,
			&dateStr,
			&notes,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.Kind = model.TransactionKind(kind)
		switch t.Kind {
		case model.KindBuy, model.KindSell, model.KindDividend, model.KindSplit:
		default:
			return nil, fmt.Errorf("transaction %s: %w: %q", t.ID, apperrors.ErrUnknownTransactionKind, kind)
		}

		t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
		t.Notes = notes.String

		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}
