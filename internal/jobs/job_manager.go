package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	quoteReconciliationJob *QuoteReconciliationJob
	limiterSweepJob        *LimiterSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	reconciler QuoteReconciler,
	reconcileAfter time.Duration,
	sweeper WindowSweeper,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		quoteReconciliationJob: NewQuoteReconciliationJob(reconciler, reconcileAfter, logger),
		limiterSweepJob:        NewLimiterSweepJob(sweeper, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.quoteReconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start quote reconciliation job: %w", err)
	}

	if err := jm.limiterSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.quoteReconciliationJob.Stop()
		return fmt.Errorf("failed to start limiter sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.limiterSweepJob.Stop()
	jm.quoteReconciliationJob.Stop()
}
