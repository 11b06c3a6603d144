package lake

import (
	"path/filepath"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPartitionDirLayout(t *testing.T) {
	got := PartitionDir("data/parquet", "prices_daily", date(2025, time.January, 2))
	want := filepath.Join("data/parquet", "prices_daily", "year=2025", "month=01", "day=02")
	if got != want {
		t.Fatalf("PartitionDir = %q, want %q", got, want)
	}
}

func TestPartitionFilesAreChildrenOfDir(t *testing.T) {
	dir := PartitionDir("root", "adj_factor", date(2024, time.December, 31))
	if f := FinalFile("root", "adj_factor", date(2024, time.December, 31)); filepath.Dir(f) != dir {
		t.Fatalf("final file %q not under %q", f, dir)
	}
	if f := TempFile("root", "adj_factor", date(2024, time.December, 31)); filepath.Dir(f) != dir {
		t.Fatalf("temp file %q not under %q", f, dir)
	}
}

func TestPartitionDirUniquePerTableDate(t *testing.T) {
	seen := map[string]string{}
	tables := []string{"prices_daily", "adj_factor", "daily_basic"}
	days := []time.Time{
		date(2025, time.January, 2),
		date(2025, time.January, 3),
		date(2025, time.November, 1),
		date(2024, time.January, 2),
	}
	for _, tbl := range tables {
		for _, d := range days {
			dir := PartitionDir("root", tbl, d)
			key := tbl + d.Format("2006-01-02")
			if prev, ok := seen[dir]; ok {
				t.Fatalf("collision: %s and %s both map to %s", prev, key, dir)
			}
			seen[dir] = key
		}
	}
}
