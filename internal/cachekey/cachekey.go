// Package cachekey derives cache-validation tokens from the watermark ledger.
//
// The snapshot token digests the whole ledger, so any successful ingestion
// invalidates every previously issued key. Coarse by design: precision is
// traded for simplicity over scoping invalidation to the tables a query
// actually touches.
package cachekey

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// SnapshotID returns a deterministic digest over the ledger: records sorted
// by table name, serialized field-by-field as compact JSON, SHA-1 hex.
// Stable under reordering of the input; changes whenever any record's date,
// row count or hash changes.
func SnapshotID(records []model.WatermarkRecord) string {
	sorted := make([]model.WatermarkRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Table < sorted[j].Table })

	payload := make([]map[string]any, 0, len(sorted))
	for _, r := range sorted {
		payload = append(payload, map[string]any{
			"table":    r.Table,
			"last_dt":  r.LastDate,
			"rowcount": r.RowCount,
			"hash":     r.Hash,
		})
	}
	data, _ := json.Marshal(payload) // map keys marshal sorted; cannot fail for these types
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// CacheKey combines a snapshot token with a canonical encoding of the
// caller's normalized query (sorted keys, compact separators). Identical
// queries yield identical keys if and only if the ledger is unchanged.
func CacheKey(snapshotID string, query map[string]string) string {
	data, _ := json.Marshal(query)
	sum := sha1.Sum([]byte(snapshotID + string(data)))
	return hex.EncodeToString(sum[:])
}

// NormalizeTsCodes splits a comma-separated code list into a sorted,
// deduplicated, whitespace-trimmed slice.
func NormalizeTsCodes(value string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range strings.Split(value, ",") {
		c = strings.TrimSpace(c)
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
