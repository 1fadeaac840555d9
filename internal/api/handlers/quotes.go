package handlers

import (
	"net/http"
	"strings"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/response"
	"github.com/mverbeek/portfolio-valuation-engine/internal/apperrors"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// QuoteHandler handles raw quote resolution HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Quotes resolves current prices for a comma-separated symbol list.
// Symbols that could not be resolved are absent from the response map.
// Query parameters:
//   - symbols (required): comma-separated symbol list
func (h *QuoteHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	symbolsParam := r.URL.Query().Get("symbols")
	if strings.TrimSpace(symbolsParam) == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrNoSymbols.Error(), nil)
		return
	}

	quotes := h.quoteService.ResolveQuotes(r.Context(), strings.Split(symbolsParam, ","))

	response.RespondJSON(w, http.StatusOK, quotes)
}
