package handlers

import (
	"errors"
	"net/http"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/response"
	"github.com/mverbeek/portfolio-valuation-engine/internal/apperrors"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// PositionHandler handles position-related HTTP requests
type PositionHandler struct {
	valuationService *service.ValuationService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(valuationService *service.ValuationService) *PositionHandler {
	return &PositionHandler{
		valuationService: valuationService,
	}
}

// Positions returns the current valued positions of one portfolio.
// Query parameters:
//   - portfolioId (required): the portfolio to value
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolioId")
	if portfolioID == "" {
		response.RespondError(w, http.StatusBadRequest, "portfolioId is required", nil)
		return
	}

	positions, err := h.valuationService.GetPositions(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to compute positions", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}
