package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/api"
	"github.com/mverbeek/portfolio-valuation-engine/internal/config"
	"github.com/mverbeek/portfolio-valuation-engine/internal/database"
	"github.com/mverbeek/portfolio-valuation-engine/internal/logging"
	"github.com/mverbeek/portfolio-valuation-engine/internal/marketdata"
	"github.com/mverbeek/portfolio-valuation-engine/internal/pricecache"
	"github.com/mverbeek/portfolio-valuation-engine/internal/repository"
	"github.com/mverbeek/portfolio-valuation-engine/internal/scheduler"
	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		println("Failed to load configuration:", err.Error())
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Create the process-wide price cache and the market-data client
	cache := pricecache.New()
	client := marketdata.NewClient(cfg.MarketData)

	// Create services
	systemService := service.NewSystemService(db)
	ledgerService := service.NewLedgerService()
	quoteService := service.NewQuoteService(client, cache, cfg.MarketData, cfg.Cache, log)
	historyService := service.NewHistoryService(client, cache, cfg.MarketData, log)
	netWorthService := service.NewNetWorthService()
	aggregatorService := service.NewAggregatorService(ledgerService)
	valuationService := service.NewValuationService(
		portfolioRepo,
		transactionRepo,
		ledgerService,
		quoteService,
		historyService,
		netWorthService,
		aggregatorService,
	)

	// Background quote refresh keeps the cache warm between page loads
	sched := scheduler.New(log)
	if cfg.Scheduler.QuoteRefreshSchedule != "" {
		job := scheduler.NewQuoteRefreshJob(valuationService, log)
		if err := sched.AddJob(cfg.Scheduler.QuoteRefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("failed to register quote refresh job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	router := api.NewRouter(systemService, valuationService, quoteService, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
