package lake

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	partFileName = "part-0000.parquet"
	tmpFileName  = "part-0000.parquet.tmp"
)

// PartitionDir maps (table, date) to its hive-style partition directory under
// root: {root}/{table}/year=YYYY/month=MM/day=DD. Pure; used by writer and
// reader so both always agree on layout.
func PartitionDir(root, table string, dt time.Time) string {
	return filepath.Join(
		root,
		table,
		fmt.Sprintf("year=%04d", dt.Year()),
		fmt.Sprintf("month=%02d", int(dt.Month())),
		fmt.Sprintf("day=%02d", dt.Day()),
	)
}

// FinalFile is the published partition file for (table, date).
func FinalFile(root, table string, dt time.Time) string {
	return filepath.Join(PartitionDir(root, table, dt), partFileName)
}

// TempFile is the staging file the writer serializes into before publishing.
func TempFile(root, table string, dt time.Time) string {
	return filepath.Join(PartitionDir(root, table, dt), tmpFileName)
}
