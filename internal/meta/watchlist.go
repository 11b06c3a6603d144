package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SetWatchlist replaces the watchlist with the given codes, deduplicated,
// trimmed and stored sorted. Single-row table keyed at id=1.
func (s *Store) SetWatchlist(ctx context.Context, codes []string) error {
	seen := make(map[string]bool, len(codes))
	uniq := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" && !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	sort.Strings(uniq)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO watchlist(id, ts_codes) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET ts_codes=excluded.ts_codes
`, strings.Join(uniq, ","))
	if err != nil {
		return fmt.Errorf("set watchlist: %w", err)
	}
	return nil
}

// Watchlist returns every code on the watchlist.
func (s *Store) Watchlist(ctx context.Context) ([]string, error) {
	var joined string
	err := s.db.QueryRowContext(ctx, `SELECT ts_codes FROM watchlist WHERE id=1`).Scan(&joined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	if joined == "" {
		return nil, nil
	}
	return strings.Split(joined, ","), nil
}
