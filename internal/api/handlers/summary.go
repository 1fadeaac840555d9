package handlers

import (
	"net/http"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/response"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// SummaryHandler handles global summary HTTP requests
type SummaryHandler struct {
	valuationService *service.ValuationService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(valuationService *service.ValuationService) *SummaryHandler {
	return &SummaryHandler{
		valuationService: valuationService,
	}
}

// Summary returns the global net-worth summary across all active portfolios.
// A partial quote outage never fails this endpoint: unresolved positions are
// valued at zero and the summary still renders.
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.valuationService.GetGlobalSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to compute summary", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
