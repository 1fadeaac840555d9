package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api/handlers"
	custommiddleware "github.com/mverbeek/portfolio-valuation-engine/internal/api/middleware"
	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	valuationService *service.ValuationService,
	quoteService *service.QuoteService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		positionHandler := handlers.NewPositionHandler(valuationService)
		r.Get("/positions", positionHandler.Positions)

		summaryHandler := handlers.NewSummaryHandler(valuationService)
		r.Get("/summary", summaryHandler.Summary)

		netWorthHandler := handlers.NewNetWorthHandler(valuationService)
		r.Get("/networth/history", netWorthHandler.History)

		quoteHandler := handlers.NewQuoteHandler(quoteService)
		r.Get("/quotes", quoteHandler.Quotes)
	})

	return r
}
