package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mverbeek/portfolio-valuation-engine/internal/service"
)

// QuoteRefreshJob periodically re-resolves quotes for every held ticker so
// the process-wide quote cache stays warm between page loads. The job is not
// tied to any request lifetime; whatever it resolves benefits the next caller.
type QuoteRefreshJob struct {
	valuationService *service.ValuationService
	log              zerolog.Logger
}

// NewQuoteRefreshJob creates a new QuoteRefreshJob.
func NewQuoteRefreshJob(valuationService *service.ValuationService, log zerolog.Logger) *QuoteRefreshJob {
	return &QuoteRefreshJob{
		valuationService: valuationService,
		log:              log.With().Str("component", "quote-refresh").Logger(),
	}
}

// Name returns the job name used in scheduler logs.
func (j *QuoteRefreshJob) Name() string {
	return "quote-refresh"
}

// Run resolves quotes for all distinct tickers in the ledger.
func (j *QuoteRefreshJob) Run() error {
	resolved, err := j.valuationService.RefreshHeldQuotes(context.Background())
	if err != nil {
		return err
	}

	j.log.Info().Int("resolved", resolved).Msg("quote cache refreshed")
	return nil
}
