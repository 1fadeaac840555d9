package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mverbeek/portfolio-valuation-engine/internal/apperrors"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios. When includeArchived is false,
// archived portfolios are filtered out.
func (r *PortfolioRepository) GetPortfolios(includeArchived bool) ([]model.Portfolio, error) {
	query := `
		SELECT id, name, description, is_archived
		FROM portfolio
	`
	if !includeArchived {
		query += ` WHERE is_archived = FALSE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		var p model.Portfolio
		var description sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &description, &p.IsArchived); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		p.Description = description.String
		portfolios = append(portfolios, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio rows: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio by its ID.
// Returns apperrors.ErrPortfolioNotFound if no portfolio exists with that ID.
func (r *PortfolioRepository) GetPortfolioOnID(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, name, description, is_archived
		FROM portfolio
		WHERE id = ?
	`

	var p model.Portfolio
	var description sql.NullString

	err := r.db.QueryRow(query, portfolioID).Scan(&p.ID, &p.Name, &description, &p.IsArchived)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	p.Description = description.String

	return p, nil
}
