// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. QuoteReconciliationJob - Runs every minute to settle Pending delivery orders whose
// courier quote was recorded but never resolved into a confirmed delivery
// 2. LimiterSweepJob - Runs every minute to drop expired request-gate windows
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconcileHandler, 5*time.Minute, limiter, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed sweep is logged and retried on the next tick
// - A reconciliation sweep still running when the next tick fires is skipped
// - Failed job starts will stop any already running jobs
package jobs
