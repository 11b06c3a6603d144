package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// TsCodeToAkSymbol converts an exchange-qualified code to the akshare
// symbol form: 000001.SZ -> sz000001, 600000.SH -> sh600000.
func TsCodeToAkSymbol(tsCode string) (string, error) {
	code, ex, ok := strings.Cut(tsCode, ".")
	if !ok || code == "" || ex == "" {
		return "", fmt.Errorf("malformed ts_code %q", tsCode)
	}
	if strings.EqualFold(ex, "SZ") {
		return "sz" + code, nil
	}
	return "sh" + code, nil
}

// CompactDate converts a YYYY-MM-DD trade date to the YYYYMMDD form vendors
// expect on the wire.
func CompactDate(tradeDate string) (string, error) {
	t, err := time.Parse(model.DateLayout, tradeDate)
	if err != nil {
		return "", fmt.Errorf("parse trade date %q: %w", tradeDate, err)
	}
	return t.Format("20060102"), nil
}

// ISODate converts a vendor YYYYMMDD date back to YYYY-MM-DD.
func ISODate(compact string) (string, error) {
	t, err := time.Parse("20060102", compact)
	if err != nil {
		return "", fmt.Errorf("parse vendor date %q: %w", compact, err)
	}
	return t.Format(model.DateLayout), nil
}
