package lake

import (
	"os"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

func sampleBars(tsCode string, closes ...float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			TsCode:    tsCode,
			TradeDate: time.Date(2025, 1, 2+i, 0, 0, 0, 0, time.UTC).Format(model.DateLayout),
			OpenRaw:   c - 0.5,
			HighRaw:   c + 1,
			LowRaw:    c - 1,
			CloseRaw:  c,
			Volume:    int64(1000 * (i + 1)),
			Amount:    c * 1000,
		}
	}
	return bars
}

func TestWritePartitionRoundTrip(t *testing.T) {
	root := t.TempDir()
	dt := date(2025, time.January, 2)
	rows := sampleBars("600519.SH", 10, 11, 12)

	n, err := WritePartition(root, model.TablePricesDaily, dt, rows)
	if err != nil {
		t.Fatalf("WritePartition: %v", err)
	}
	if n != len(rows) {
		t.Fatalf("row count = %d, want %d", n, len(rows))
	}

	got, err := parquet.ReadFile[model.PriceBar](FinalFile(root, model.TablePricesDaily, dt))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], rows[i])
		}
	}
}

func TestWritePartitionReplacesPriorFile(t *testing.T) {
	root := t.TempDir()
	dt := date(2025, time.January, 2)

	if _, err := WritePartition(root, model.TablePricesDaily, dt, sampleBars("600519.SH", 10, 11)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WritePartition(root, model.TablePricesDaily, dt, sampleBars("600519.SH", 20, 21, 22)); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := parquet.ReadFile[model.PriceBar](FinalFile(root, model.TablePricesDaily, dt))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("partition not replaced, got %d rows", len(got))
	}
	if got[0].CloseRaw != 20 {
		t.Fatalf("stale data after replace: %+v", got[0])
	}
}

func TestWritePartitionLeavesNoTempFile(t *testing.T) {
	root := t.TempDir()
	dt := date(2025, time.January, 2)
	if _, err := WritePartition(root, model.TablePricesDaily, dt, sampleBars("600519.SH", 10)); err != nil {
		t.Fatalf("WritePartition: %v", err)
	}
	if _, err := os.Stat(TempFile(root, model.TablePricesDaily, dt)); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after publish")
	}
}

func TestWritePartitionOptionalColumnsSurvive(t *testing.T) {
	root := t.TempDir()
	dt := date(2025, time.January, 2)
	pre := 9.5
	rows := sampleBars("000001.SZ", 10, 11)
	rows[0].PreClose = &pre // second row stays nil

	if _, err := WritePartition(root, model.TablePricesDaily, dt, rows); err != nil {
		t.Fatalf("WritePartition: %v", err)
	}
	got, err := parquet.ReadFile[model.PriceBar](FinalFile(root, model.TablePricesDaily, dt))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got[0].PreClose == nil || *got[0].PreClose != pre {
		t.Fatalf("pre_close lost: %+v", got[0])
	}
	if got[1].PreClose != nil {
		t.Fatalf("absent pre_close came back non-nil: %+v", got[1])
	}
}
