package provider

import "testing"

func TestTsCodeToAkSymbol(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"000001.SZ", "sz000001"},
		{"300750.sz", "sz300750"},
		{"600000.SH", "sh600000"},
		{"688981.SH", "sh688981"},
	}
	for _, c := range cases {
		got, err := TsCodeToAkSymbol(c.in)
		if err != nil {
			t.Fatalf("TsCodeToAkSymbol(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("TsCodeToAkSymbol(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "600000", ".SH", "600000."} {
		if _, err := TsCodeToAkSymbol(bad); err == nil {
			t.Fatalf("TsCodeToAkSymbol(%q) must fail", bad)
		}
	}
}

func TestDateConversionRoundTrip(t *testing.T) {
	compact, err := CompactDate("2025-01-02")
	if err != nil {
		t.Fatalf("CompactDate: %v", err)
	}
	if compact != "20250102" {
		t.Fatalf("CompactDate = %q", compact)
	}
	iso, err := ISODate(compact)
	if err != nil {
		t.Fatalf("ISODate: %v", err)
	}
	if iso != "2025-01-02" {
		t.Fatalf("ISODate = %q", iso)
	}
	if _, err := CompactDate("2025/01/02"); err == nil {
		t.Fatalf("malformed trade date must be rejected")
	}
	if _, err := ISODate("2025-01-02"); err == nil {
		t.Fatalf("already-ISO input must be rejected")
	}
}

func TestTushareUnitConversions(t *testing.T) {
	// 12345.67 lots is 1234567 shares exactly, no float drift
	if got := lotsToShares(12345.67); got != 1234567 {
		t.Fatalf("lotsToShares = %d, want 1234567", got)
	}
	if got := lotsToShares(nil); got != 0 {
		t.Fatalf("missing volume must convert to 0, got %d", got)
	}
	if got := thousandsToUnits(1234.5); got != 1234500 {
		t.Fatalf("thousandsToUnits = %v, want 1234500", got)
	}
}

func TestNewTushareProviderRequiresToken(t *testing.T) {
	if _, err := NewTushareProvider(""); err == nil {
		t.Fatalf("empty token must be rejected")
	}
	p, err := NewTushareProvider("tok")
	if err != nil {
		t.Fatalf("NewTushareProvider: %v", err)
	}
	if p.GetName() != "tushare" {
		t.Fatalf("GetName = %q", p.GetName())
	}
}
