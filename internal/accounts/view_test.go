package accounts

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEntryRelabelsTypeTag(t *testing.T) {
	entry := formatEntry(map[string]any{"type": "lightning_payment"})
	require.Equal(t, "Lightning Payment", entry.Fields["Type"])
	require.Equal(t, []string{"Type"}, entry.Keys)
}

func TestFormatEntryRendersTimeAndWad(t *testing.T) {
	entry := formatEntry(map[string]any{
		"type": "session_started",
		"time": float64(1700000000),
		"wad":  map[string]any{"msats": float64(1234), "asset_stable": false, "code": "BTC"},
	})

	require.Equal(t, "Session Started", entry.Fields["Type"])
	require.Equal(t, "2023-11-14 22:13:20", entry.Fields["Time"])
	require.Equal(t, "₿ 0.00000001234", entry.Fields["Wad"])
	require.Equal(t, []string{"Time", "Type", "Wad"}, entry.Keys)
}

func TestFormatEntryTitleCasesUnknownFields(t *testing.T) {
	entry := formatEntry(map[string]any{"preimage": "abc123", "hops": float64(3)})
	require.Equal(t, "abc123", entry.Fields["Preimage"])
	require.Equal(t, "3", entry.Fields["Hops"])
	require.Equal(t, []string{"Hops", "Preimage"}, entry.Keys)
}

func TestFormatEntryConcurrent(t *testing.T) {
	entry := map[string]any{
		"type":     "lightning_payment",
		"time":     float64(1700000000),
		"wad":      map[string]any{"msats": float64(1234)},
		"preimage": "abc123",
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := formatEntry(entry)
				if got.Fields["Type"] != "Lightning Payment" {
					t.Errorf("got type %q", got.Fields["Type"])
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestWadStringMatchesBalanceRendering(t *testing.T) {
	raw := map[string]any{"msats": float64(1234), "asset_stable": false, "code": "BTC"}

	entry := formatEntry(map[string]any{"wad": raw})
	rows := accountRowsFromPayload(map[string]any{
		"accounts": []any{map[string]any{"name": "acct-1", "wad": raw, "cap": raw}},
	})

	require.Len(t, rows, 1)
	require.Equal(t, rows[0].Balance, entry.Fields["Wad"])
}

func TestWadStringFallsBackOnMalformedValue(t *testing.T) {
	require.Equal(t, "not-a-wad", wadString("not-a-wad"))
	require.Equal(t, "map[msats:bogus]", wadString(map[string]any{"msats": "bogus"}))
}

func TestSessionsFromPayloadSkipsMalformedShapes(t *testing.T) {
	sessions := sessionsFromPayload(map[string]any{
		"receipts": []any{
			[]any{
				map[string]any{"type": "session_started"},
				"not-an-entry",
			},
			"not-a-session",
		},
	})

	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Entries, 1)
	require.Equal(t, "Session Started", sessions[0].Entries[0].Fields["Type"])
}

func TestAccountRowsFromPayloadIgnoresMalformedAccounts(t *testing.T) {
	rows := accountRowsFromPayload(map[string]any{
		"accounts": []any{"not-an-account", map[string]any{"name": "acct-1"}},
	})

	require.Len(t, rows, 1)
	require.Equal(t, "acct-1", rows[0].Name)
}
