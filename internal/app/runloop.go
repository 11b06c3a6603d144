package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isMxy0934/PandaAlpha/internal/ingest"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/model"
)

const dailyJobID = "daily_job"

// RunFlow orchestrates the ingest loop: trigger → run → done → wait → trigger.
// One run ingests the current trade date in the configured timezone. Signals
// stop the loop between runs.
func RunFlow(cfg *Config, pipe *ingest.Pipeline, metaStore *meta.Store) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Warn("invalid timezone, using UTC", "tz", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	trigger := make(chan struct{}, 1)
	done := make(chan ingest.Report, 1)

	go func() {
		for range trigger {
			tradeDate := time.Now().In(loc).Format(model.DateLayout)
			done <- pipe.RunDaily(context.Background(), tradeDate)
		}
	}()

	seedScheduled(metaStore, nextRunTime(cfg, loc))
	trigger <- struct{}{}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case report := <-done:
			recordJobStatus(metaStore, report, nextRunTime(cfg, loc))

			nextRun := nextRunTime(cfg, loc)
			waitDur := time.Until(nextRun)
			if waitDur <= 0 {
				slog.Info("next run passed, running now", "next_run", nextRun.Format("2006-01-02 15:04"))
			} else {
				slog.Info("timer waiting", "hours", waitDur.Hours(), "until", nextRun.Format("2006-01-02 15:04"))
				timer := time.NewTimer(waitDur)
				select {
				case <-timer.C:
				case sig := <-signals:
					slog.Info("received signal, stopping", "sig", sig, "restart_at", nextRun.Format("2006-01-02 15:04"))
					timer.Stop()
					return
				}
			}
			trigger <- struct{}{}
		case sig := <-signals:
			slog.Info("received signal, graceful shutdown", "sig", sig)
			return
		}
	}
}

// seedScheduled records the job as scheduled before the first run, so
// /api/status shows the job and its next run time even before anything has
// executed.
func seedScheduled(metaStore *meta.Store, nextRun time.Time) {
	js := meta.JobStatus{
		ID:      dailyJobID,
		State:   meta.JobStateScheduled,
		NextRun: nextRun.Format("2006-01-02 15:04:05"),
	}
	if err := metaStore.UpsertJobStatus(context.Background(), js); err != nil {
		slog.Warn("could not record job status", "error", err)
	}
}

func recordJobStatus(metaStore *meta.Store, report ingest.Report, nextRun time.Time) {
	state := meta.JobStateOK
	if report.Failed() {
		state = meta.JobStateError
	}
	js := meta.JobStatus{
		ID:      dailyJobID,
		LastRun: time.Now().Format("2006-01-02 15:04:05"),
		State:   state,
		NextRun: nextRun.Format("2006-01-02 15:04:05"),
	}
	if err := metaStore.UpsertJobStatus(context.Background(), js); err != nil {
		slog.Warn("could not record job status", "error", err)
	}
}

func nextRunTime(cfg *Config, loc *time.Location) time.Time {
	now := time.Now().In(loc)
	hour, min := cfg.DailyRunHour, cfg.DailyRunMinute
	targetToday := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	if now.Before(targetToday) {
		return targetToday
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, min, 0, 0, loc)
}
