package handlers

import (
	"net/http"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/response"
	"github.com/mverbeek/portfolio-valuation-engine/internal/model"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// NetWorthHandler handles net-worth history HTTP requests
type NetWorthHandler struct {
	valuationService *service.ValuationService
}

// NewNetWorthHandler creates a new NetWorthHandler
func NewNetWorthHandler(valuationService *service.ValuationService) *NetWorthHandler {
	return &NetWorthHandler{
		valuationService: valuationService,
	}
}

// NetWorthPointResponse represents one entry of the reconstructed series.
type NetWorthPointResponse struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Invested float64 `json:"invested"`
}

// History returns the reconstructed net-worth series.
// Query parameters:
//   - range (optional): one of 1mo, 3mo, 6mo, 1y, max. Defaults to 1y.
func (h *NetWorthHandler) History(w http.ResponseWriter, r *http.Request) {
	rangeParam := r.URL.Query().Get("range")
	if rangeParam == "" {
		rangeParam = string(model.Range1Y)
	}

	rng, err := model.ParseHistoryRange(rangeParam)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid range", rangeParam)
		return
	}

	series, err := h.valuationService.GetNetWorthHistory(r.Context(), rng)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to reconstruct history", err.Error())
		return
	}

	result := make([]NetWorthPointResponse, len(series))
	for i, point := range series {
		result[i] = NetWorthPointResponse{
			Date:     point.Date.Format("2006-01-02"),
			Value:    point.Value,
			Invested: point.Invested,
		}
	}

	response.RespondJSON(w, http.StatusOK, result)
}
