package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// WindowSweeper is satisfied by gate.FixedWindow.
type WindowSweeper interface {
	Sweep(now time.Time) int
}

// LimiterSweepJob drops expired rate-limit windows so that the limiter's memory tracks
// active clients only.
type LimiterSweepJob struct {
	sweeper WindowSweeper
	cron    *cron.Cron
	now     func() time.Time
	logger  *slog.Logger
}

func NewLimiterSweepJob(sweeper WindowSweeper, logger *slog.Logger) *LimiterSweepJob {
	return &LimiterSweepJob{
		sweeper: sweeper,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
		logger:  logger.With("component", "limiter_sweep_job"),
	}
}

func (j *LimiterSweepJob) Start() error {
	if _, err := j.cron.AddFunc("30 * * * * *", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Limiter sweep job started (running every minute)")
	return nil
}

func (j *LimiterSweepJob) Run() {
	if removed := j.sweeper.Sweep(j.now()); removed > 0 {
		j.logger.Debug("Expired rate-limit windows removed", "count", removed)
	}
}

func (j *LimiterSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Limiter sweep job stopped")
}
