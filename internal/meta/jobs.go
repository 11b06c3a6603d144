package meta

import (
	"context"
	"fmt"
)

// Job states as written by the scheduler. Free text by design; the API
// passes them through verbatim.
const (
	JobStateOK        = "ok"
	JobStateError     = "error"
	JobStateScheduled = "scheduled"
)

// JobStatus is the per-job record overwritten on every run.
type JobStatus struct {
	ID      string `json:"id"`
	LastRun string `json:"last_run,omitempty"`
	State   string `json:"state,omitempty"`
	NextRun string `json:"next_run,omitempty"`
}

// UpsertJobStatus inserts or overwrites the record for js.ID.
func (s *Store) UpsertJobStatus(ctx context.Context, js JobStatus) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO jobs(id, last_run, state, next_run) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    last_run=excluded.last_run,
    state=excluded.state,
    next_run=excluded.next_run
`, js.ID, nullIfEmpty(js.LastRun), nullIfEmpty(js.State), nullIfEmpty(js.NextRun))
	if err != nil {
		return fmt.Errorf("upsert job status: %w", err)
	}
	return nil
}

// ListJobs returns all job records ordered by id.
func (s *Store) ListJobs(ctx context.Context) ([]JobStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, COALESCE(last_run, ''), COALESCE(state, ''), COALESCE(next_run, '')
FROM jobs ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []JobStatus
	for rows.Next() {
		var j JobStatus
		if err := rows.Scan(&j.ID, &j.LastRun, &j.State, &j.NextRun); err != nil {
			return nil, fmt.Errorf("scan job status: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
