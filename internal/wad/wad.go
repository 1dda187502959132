// Package wad models the structured currency amounts exchanged with the
// terminus ledger service. A wad is a millisatoshi quantity, optionally
// pegged to an external asset, and renders to the human-readable string
// shown for balances, caps, and receipt amounts.
package wad

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MsatsPerBTC is the number of millisatoshis in one bitcoin.
const MsatsPerBTC = 100_000_000_000

const bitcoinSymbol = "₿"

// Wad is a currency amount as reported by terminus.
type Wad struct {
	Msats       int64
	AssetStable bool
	AssetUnits  decimal.Decimal
	Code        string
	Name        string
	Symbol      string
	Decimals    int32
}

// Bitcoin builds a plain bitcoin-denominated wad.
func Bitcoin(msats int64) Wad {
	return Wad{
		Msats:    msats,
		Code:     "BTC",
		Name:     "Bitcoin",
		Symbol:   bitcoinSymbol,
		Decimals: 8,
	}
}

// FromMap decodes the wire representation used inside RPC payloads. Numeric
// fields arrive as JSON numbers (float64) or occasionally strings; both are
// accepted.
func FromMap(m map[string]any) (Wad, error) {
	if m == nil {
		return Wad{}, fmt.Errorf("wad is null")
	}

	msats, err := msatsField(m["msats"])
	if err != nil {
		return Wad{}, err
	}

	w := Wad{Msats: msats}
	w.AssetStable, _ = m["asset_stable"].(bool)
	w.Code, _ = m["code"].(string)
	w.Name, _ = m["name"].(string)
	w.Symbol, _ = m["symbol"].(string)

	if d, ok := m["decimals"].(float64); ok {
		w.Decimals = int32(d)
	}
	if u, ok := m["asset_units"]; ok {
		units, err := decimalField(u)
		if err != nil {
			return Wad{}, fmt.Errorf("asset_units: %w", err)
		}
		w.AssetUnits = units
	}

	if !w.AssetStable && w.Code == "" {
		w.Code = "BTC"
		w.Name = "Bitcoin"
		w.Symbol = bitcoinSymbol
		w.Decimals = 8
	}
	return w, nil
}

// String renders the wad for display. Bitcoin wads show the BTC quantity at
// msat precision with trailing zeros trimmed; stable wads show the asset
// units at the asset's decimal places.
func (w Wad) String() string {
	if w.AssetStable {
		symbol := w.Symbol
		if symbol == "" {
			symbol = w.Code + " "
		}
		return fmt.Sprintf("%s%s %s", symbol, w.AssetUnits.StringFixed(w.Decimals), w.Code)
	}

	btc := decimal.NewFromInt(w.Msats).Div(decimal.NewFromInt(MsatsPerBTC))
	s := btc.StringFixed(11)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	symbol := w.Symbol
	if symbol == "" {
		symbol = bitcoinSymbol
	}
	return fmt.Sprintf("%s %s", symbol, s)
}

func msatsField(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return 0, fmt.Errorf("msats: %w", err)
		}
		return d.IntPart(), nil
	case nil:
		return 0, fmt.Errorf("msats missing")
	default:
		return 0, fmt.Errorf("msats has unsupported type %T", v)
	}
}

func decimalField(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}
