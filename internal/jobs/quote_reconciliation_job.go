package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
)

// QuoteReconciler is satisfied by commands.ReconcileQuotesCommandHandler.
type QuoteReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileQuotesCommand) (commands.ReconcileQuotesResult, error)
}

// QuoteReconciliationJob settles orders left Pending with a courier quote marker,
// which happens when the process died or the provider timed out between accepting
// a quote and recording the delivery.
type QuoteReconciliationJob struct {
	handler   QuoteReconciler
	olderThan time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewQuoteReconciliationJob(handler QuoteReconciler, olderThan time.Duration, logger *slog.Logger) *QuoteReconciliationJob {
	return &QuoteReconciliationJob{
		handler:   handler,
		olderThan: olderThan,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "quote_reconciliation_job"),
	}
}

// Start schedules the sweep at the top of every minute.
func (j *QuoteReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc("0 * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Quote reconciliation job started (running every minute)",
		"older_than", j.olderThan)
	return nil
}

// Run performs one sweep.
func (j *QuoteReconciliationJob) Run(ctx context.Context) {
	cmd, err := commands.NewReconcileQuotesCommand(j.olderThan)
	if err != nil {
		j.logger.ErrorContext(ctx, "Quote reconciliation misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Quote reconciliation failed", "error", err)
		return
	}
	if result.Adopted+result.Cleared+result.Skipped > 0 {
		j.logger.InfoContext(ctx, "Quote reconciliation finished",
			"adopted", result.Adopted, "cleared", result.Cleared, "skipped", result.Skipped)
	}
}

// Stop waits for a running sweep to finish.
func (j *QuoteReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Quote reconciliation job stopped")
}
