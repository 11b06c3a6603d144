package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/isMxy0934/PandaAlpha/internal/ingest"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
)

func newTestStore(t *testing.T) *meta.Store {
	t.Helper()
	s, err := meta.Open(filepath.Join(t.TempDir(), "meta.sqlite"))
	if err != nil {
		t.Fatalf("meta.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedScheduledRecordsJobBeforeFirstRun(t *testing.T) {
	s := newTestStore(t)
	next := time.Date(2025, 1, 2, 19, 0, 0, 0, time.UTC)

	seedScheduled(s, next)

	jobs, err := s.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	if jobs[0].ID != dailyJobID || jobs[0].State != meta.JobStateScheduled {
		t.Fatalf("seeded job = %+v", jobs[0])
	}
	if jobs[0].NextRun != "2025-01-02 19:00:00" {
		t.Fatalf("next_run = %q", jobs[0].NextRun)
	}
}

func TestRecordJobStatusOverwritesSeededState(t *testing.T) {
	s := newTestStore(t)
	next := time.Date(2025, 1, 3, 19, 0, 0, 0, time.UTC)

	seedScheduled(s, next)
	recordJobStatus(s, ingest.Report{Results: []ingest.TableResult{{Table: "prices_daily"}}}, next)

	jobs, err := s.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].State != meta.JobStateOK {
		t.Fatalf("clean run must overwrite to ok: %+v", jobs)
	}

	failed := ingest.Report{Results: []ingest.TableResult{{Table: "adj_factor", Error: "boom"}}}
	recordJobStatus(s, failed, next)
	jobs, err = s.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if jobs[0].State != meta.JobStateError {
		t.Fatalf("failed run must record error state: %+v", jobs[0])
	}
}

func TestNextRunTimeLandsOnConfiguredClock(t *testing.T) {
	cfg := &Config{DailyRunHour: 19, DailyRunMinute: 30}
	got := nextRunTime(cfg, time.UTC)
	now := time.Now().In(time.UTC)
	if !got.After(now) {
		t.Fatalf("next run %v must be in the future (now %v)", got, now)
	}
	if got.Hour() != 19 || got.Minute() != 30 {
		t.Fatalf("next run %v not on the configured clock", got)
	}
	if got.Sub(now) > 24*time.Hour {
		t.Fatalf("next run %v more than a day away", got)
	}
}
