package meta

import (
	"context"
	"fmt"
)

// FailQueueEntry is one recorded ingestion failure. Append-only, purely
// diagnostic: nothing in the core consults it or drives retries from it.
// The retries column is written but never incremented; kept for a future
// replay feature.
type FailQueueEntry struct {
	ID        int64  `json:"id"`
	Endpoint  string `json:"endpoint"`
	Params    string `json:"params"`
	Retries   int    `json:"retries"`
	LastError string `json:"last_error"`
	CreatedAt string `json:"created_at"`
}

// EnqueueFail appends one failure row with a generated id and the current
// timestamp.
func (s *Store) EnqueueFail(ctx context.Context, endpoint, params, lastError string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO fail_queue(endpoint, params, last_error) VALUES (?, ?, ?)
`, endpoint, params, lastError)
	if err != nil {
		return fmt.Errorf("enqueue fail: %w", err)
	}
	return nil
}

// ListFails returns the most recent failures, newest first.
func (s *Store) ListFails(ctx context.Context, limit int) ([]FailQueueEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, endpoint, params, retries, COALESCE(last_error, ''), created_at
FROM fail_queue ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list fails: %w", err)
	}
	defer rows.Close()

	out := make([]FailQueueEntry, 0, limit)
	for rows.Next() {
		var e FailQueueEntry
		if err := rows.Scan(&e.ID, &e.Endpoint, &e.Params, &e.Retries, &e.LastError, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fail entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
