package lake

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// WatermarkLedger stores one record per table in a single small parquet file
// kept beside the partition tree, so "what is currently visible" can be
// answered without scanning the data itself.
//
// Upsert is a read-modify-write over the whole file. That is only safe under
// the single-writer deployment assumption; with concurrent writers this
// would have to become a keyed store with compare-and-swap.
type WatermarkLedger struct {
	path string
}

// NewWatermarkLedger creates a ledger persisted at path (e.g. data/watermark.parquet).
func NewWatermarkLedger(path string) *WatermarkLedger {
	return &WatermarkLedger{path: path}
}

// ReadAll returns every ledger record. A ledger that does not exist yet is
// an empty ledger, not an error.
func (l *WatermarkLedger) ReadAll() ([]model.WatermarkRecord, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil, nil
	}
	records, err := parquet.ReadFile[model.WatermarkRecord](l.path)
	if err != nil {
		return nil, fmt.Errorf("read watermark ledger: %w", err)
	}
	return records, nil
}

// Upsert replaces the record whose table matches (or appends a new one) and
// rewrites the entire ledger, publishing through the same temp+rename step
// as partitions so a crash cannot leave a torn ledger.
func (l *WatermarkLedger) Upsert(rec model.WatermarkRecord) error {
	existing, err := l.ReadAll()
	if err != nil {
		return err
	}
	replaced := false
	for i := range existing {
		if existing[i].Table == rec.Table {
			existing[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		existing = append(existing, rec)
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i].Table < existing[j].Table })

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := parquet.WriteFile(tmp, existing, writerOptions()...); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write watermark ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish watermark ledger: %w", err)
	}
	return nil
}

// BatchHash digests the sorted set of entity identifiers in a written batch.
// It is the coarse change signal recorded in the watermark, not a hash of
// row content.
func BatchHash(tsCodes []string) string {
	seen := make(map[string]bool, len(tsCodes))
	uniq := make([]string, 0, len(tsCodes))
	for _, c := range tsCodes {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	sort.Strings(uniq)
	sum := sha1.Sum([]byte(strings.Join(uniq, ",")))
	return hex.EncodeToString(sum[:])
}
