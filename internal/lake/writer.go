package lake

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

// writerOptions: dictionary encoding comes from the ,dict struct tags, column
// statistics are always written, zstd keeps daily partitions small.
func writerOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&parquet.Zstd),
	}
}

// WritePartition serializes rows to the partition temp file and atomically
// publishes it at the final path via rename, replacing any prior file for
// (table, date) in one visible step. Readers observe either the old file or
// the new one in full, never a partial write. Returns the row count.
func WritePartition[T any](root, table string, dt time.Time, rows []T) (int, error) {
	tmp := TempFile(root, table, dt)
	final := FinalFile(root, table, dt)

	if err := os.MkdirAll(filepath.Dir(tmp), 0755); err != nil {
		return 0, fmt.Errorf("create partition dir: %w", err)
	}
	if err := parquet.WriteFile(tmp, rows, writerOptions()...); err != nil {
		// Never leave the staging file behind on a failed serialize.
		os.Remove(tmp)
		return 0, fmt.Errorf("write partition %s %s: %w", table, dt.Format("2006-01-02"), err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("publish partition %s %s: %w", table, dt.Format("2006-01-02"), err)
	}
	return len(rows), nil
}
