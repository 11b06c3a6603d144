package cachekey

import (
	"testing"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

func ledger() []model.WatermarkRecord {
	return []model.WatermarkRecord{
		{Table: "prices_daily", LastDate: "2025-01-06", RowCount: 5000, Hash: "aaa"},
		{Table: "adj_factor", LastDate: "2025-01-06", RowCount: 4800, Hash: "bbb"},
		{Table: "daily_basic", LastDate: "2025-01-06", RowCount: 5000, Hash: "ccc"},
	}
}

func TestSnapshotIDStableUnderReorder(t *testing.T) {
	a := ledger()
	b := []model.WatermarkRecord{a[2], a[0], a[1]}
	if SnapshotID(a) != SnapshotID(b) {
		t.Fatalf("snapshot id must not depend on record order")
	}
}

func TestSnapshotIDChangesWithAnyField(t *testing.T) {
	base := SnapshotID(ledger())

	changed := ledger()
	changed[0].RowCount++
	if SnapshotID(changed) == base {
		t.Fatalf("row count change must change snapshot id")
	}

	changed = ledger()
	changed[1].Hash = "zzz"
	if SnapshotID(changed) == base {
		t.Fatalf("hash change must change snapshot id")
	}

	changed = ledger()
	changed[2].LastDate = "2025-01-07"
	if SnapshotID(changed) == base {
		t.Fatalf("date change must change snapshot id")
	}
}

func TestCacheKeyBindsSnapshotAndQuery(t *testing.T) {
	snap := SnapshotID(ledger())
	q1 := map[string]string{"ts_codes": "600519.SH", "window": "20"}
	q2 := map[string]string{"ts_codes": "600519.SH", "window": "30"}

	if CacheKey(snap, q1) != CacheKey(snap, q1) {
		t.Fatalf("identical query + ledger must give identical keys")
	}
	if CacheKey(snap, q1) == CacheKey(snap, q2) {
		t.Fatalf("different query must give different keys")
	}

	other := ledger()
	other[0].RowCount++
	if CacheKey(snap, q1) == CacheKey(SnapshotID(other), q1) {
		t.Fatalf("any ledger change must invalidate every key")
	}
}

func TestNormalizeTsCodes(t *testing.T) {
	got := NormalizeTsCodes(" 600519.SH, 000001.SZ ,600519.SH,, ")
	want := []string{"000001.SZ", "600519.SH"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
