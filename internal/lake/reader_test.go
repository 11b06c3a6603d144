package lake

import (
	"testing"
	"time"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

func writePrices(t *testing.T, root string, dt time.Time, bars []model.PriceBar) {
	t.Helper()
	if _, err := WritePartition(root, model.TablePricesDaily, dt, bars); err != nil {
		t.Fatalf("write prices %s: %v", dt.Format(model.DateLayout), err)
	}
}

func writeFactors(t *testing.T, root string, dt time.Time, factors []model.AdjFactor) {
	t.Helper()
	if _, err := WritePartition(root, model.TableAdjFactor, dt, factors); err != nil {
		t.Fatalf("write factors %s: %v", dt.Format(model.DateLayout), err)
	}
}

func bar(code, tradeDate string, close float64) model.PriceBar {
	return model.PriceBar{
		TsCode: code, TradeDate: tradeDate,
		OpenRaw: close, HighRaw: close, LowRaw: close, CloseRaw: close,
		Volume: 100, Amount: close * 100,
	}
}

func TestReadPricesMissingTableIsEmptyNotError(t *testing.T) {
	r := NewReader(t.TempDir())
	rows, err := r.ReadPrices(nil, "", "")
	if err != nil {
		t.Fatalf("ReadPrices on empty lake: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("want empty non-nil result, got %#v", rows)
	}
}

func TestReadPricesDateRangeInclusive(t *testing.T) {
	root := t.TempDir()
	for i := 2; i <= 6; i++ {
		dt := time.Date(2025, 1, i, 0, 0, 0, 0, time.UTC)
		writePrices(t, root, dt, []model.PriceBar{bar("600519.SH", dt.Format(model.DateLayout), float64(i))})
	}

	rows, err := NewReader(root).ReadPrices(nil, "2025-01-03", "2025-01-05")
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (bounds inclusive)", len(rows))
	}
	for _, row := range rows {
		if row.TradeDate < "2025-01-03" || row.TradeDate > "2025-01-05" {
			t.Fatalf("row outside range: %s", row.TradeDate)
		}
	}
}

func TestReadPricesEntityFilter(t *testing.T) {
	root := t.TempDir()
	dt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	writePrices(t, root, dt, []model.PriceBar{
		bar("600519.SH", "2025-01-02", 10),
		bar("000001.SZ", "2025-01-02", 20),
	})

	rows, err := NewReader(root).ReadPrices([]string{"000001.SZ"}, "", "")
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(rows) != 1 || rows[0].TsCode != "000001.SZ" {
		t.Fatalf("entity filter failed: %+v", rows)
	}
}

func TestReadPricesLeftJoinAdjFactor(t *testing.T) {
	root := t.TempDir()
	dt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	writePrices(t, root, dt, []model.PriceBar{
		bar("600519.SH", "2025-01-02", 10),
		bar("000001.SZ", "2025-01-02", 20),
	})
	writeFactors(t, root, dt, []model.AdjFactor{
		{TsCode: "600519.SH", TradeDate: "2025-01-02", AdjFactor: 1.5},
	})

	rows, err := NewReader(root).ReadPrices(nil, "", "")
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	byCode := map[string]model.PriceRow{}
	for _, r := range rows {
		byCode[r.TsCode] = r
	}
	matched := byCode["600519.SH"]
	if matched.AdjFactor == nil || *matched.AdjFactor != 1.5 {
		t.Fatalf("joined factor wrong: %+v", matched)
	}
	if unmatched := byCode["000001.SZ"]; unmatched.AdjFactor != nil {
		t.Fatalf("unmatched row must carry absent factor, got %v", *unmatched.AdjFactor)
	}
}

func TestReadPricesNoFactorTableAtAll(t *testing.T) {
	root := t.TempDir()
	dt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	writePrices(t, root, dt, []model.PriceBar{bar("600519.SH", "2025-01-02", 10)})

	rows, err := NewReader(root).ReadPrices(nil, "", "")
	if err != nil {
		t.Fatalf("ReadPrices without adj_factor table: %v", err)
	}
	if len(rows) != 1 || rows[0].AdjFactor != nil {
		t.Fatalf("want 1 row with absent factor, got %+v", rows)
	}
}

func TestReadDailyBasic(t *testing.T) {
	root := t.TempDir()
	dt := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	turnover := 2.4
	if _, err := WritePartition(root, model.TableDailyBasic, dt, []model.DailyBasic{
		{TsCode: "600519.SH", TradeDate: "2025-01-02", TurnoverRate: &turnover},
		{TsCode: "000001.SZ", TradeDate: "2025-01-02"},
	}); err != nil {
		t.Fatalf("write daily_basic: %v", err)
	}

	rows, err := NewReader(root).ReadDailyBasic([]string{"600519.SH"}, "2025-01-02", "2025-01-02")
	if err != nil {
		t.Fatalf("ReadDailyBasic: %v", err)
	}
	if len(rows) != 1 || rows[0].TurnoverRate == nil || *rows[0].TurnoverRate != turnover {
		t.Fatalf("daily_basic read wrong: %+v", rows)
	}
	if rows[0].PE != nil {
		t.Fatalf("unknown valuation field must stay nil")
	}
}
