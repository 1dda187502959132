package wad

import (
	"encoding/json"
	"testing"
)

func TestBitcoinString(t *testing.T) {
	cases := []struct {
		msats int64
		want  string
	}{
		{0, "₿ 0.0"},
		{1_000, "₿ 0.00000001"},
		{1_234, "₿ 0.00000001234"},
		{100_000_000_000, "₿ 1.0"},
		{150_000_000_000, "₿ 1.5"},
	}
	for _, tc := range cases {
		got := Bitcoin(tc.msats).String()
		if got != tc.want {
			t.Fatalf("Bitcoin(%d) = %q, want %q", tc.msats, got, tc.want)
		}
	}
}

func TestStableString(t *testing.T) {
	raw := `{"msats": 123456, "asset_stable": true, "asset_units": 1.0,
             "code": "USD", "name": "US Dollar", "symbol": "$", "decimals": 2}`
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w, err := FromMap(m)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if got := w.String(); got != "$1.00 USD" {
		t.Fatalf("stable wad = %q, want %q", got, "$1.00 USD")
	}
}

func TestFromMapDefaultsToBitcoin(t *testing.T) {
	w, err := FromMap(map[string]any{"msats": float64(5000)})
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if w.Code != "BTC" || w.Msats != 5000 {
		t.Fatalf("unexpected wad %+v", w)
	}
	if got := w.String(); got != "₿ 0.00000005" {
		t.Fatalf("wad string = %q", got)
	}
}

func TestFromMapRejectsMissingMsats(t *testing.T) {
	if _, err := FromMap(map[string]any{"code": "BTC"}); err == nil {
		t.Fatalf("expected error for missing msats")
	}
	if _, err := FromMap(nil); err == nil {
		t.Fatalf("expected error for nil map")
	}
}
