package accounts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-pay/custodia/internal/wad"
)

// AccountRow is one account as shown on the accounts page.
type AccountRow struct {
	Name    string `json:"name"`
	Balance string `json:"wad"`
	Cap     string `json:"cap"`
}

// AccountsView is the accounts page payload. Error carries the inline
// message shown when an operation failed.
type AccountsView struct {
	View     string       `json:"view"`
	Accounts []AccountRow `json:"accounts"`
	Error    string       `json:"error,omitempty"`
}

// Entry is one formatted receipt entry: display keys mapped to display
// values, plus the field order the remote payload did not preserve.
type Entry struct {
	Fields map[string]string `json:"fields"`
	Keys   []string          `json:"keys"`
}

// ReceiptSession is one ordered run of receipt entries.
type ReceiptSession struct {
	Entries []Entry `json:"entries"`
}

// ReceiptsView is the receipts page payload for one account.
type ReceiptsView struct {
	View     string           `json:"view"`
	Account  string           `json:"account"`
	Sessions []ReceiptSession `json:"sessions"`
}

const displayTimeLayout = "2006-01-02 15:04:05"

// accountRowsFromPayload converts the raw getaccountinfo payload into view
// rows, rendering balances and caps through the shared wad formatting.
func accountRowsFromPayload(payload map[string]any) []AccountRow {
	rows := []AccountRow{}
	raw, _ := payload["accounts"].([]any)
	for _, item := range raw {
		account, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := account["name"].(string)
		rows = append(rows, AccountRow{
			Name:    name,
			Balance: wadString(account["wad"]),
			Cap:     wadString(account["cap"]),
		})
	}
	return rows
}

// sessionsFromPayload converts the raw getaccountreceipts payload into
// formatted receipt sessions.
func sessionsFromPayload(payload map[string]any) []ReceiptSession {
	sessions := []ReceiptSession{}
	raw, _ := payload["receipts"].([]any)
	for _, rawSession := range raw {
		rawEntries, ok := rawSession.([]any)
		if !ok {
			continue
		}
		session := ReceiptSession{Entries: []Entry{}}
		for _, rawEntry := range rawEntries {
			entry, ok := rawEntry.(map[string]any)
			if !ok {
				continue
			}
			session.Entries = append(session.Entries, formatEntry(entry))
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// formatEntry reshapes one ledger event for display: the type tag is
// relabeled, the timestamp becomes a human-readable string, wads render
// through the shared currency formatting, and any remaining field keeps a
// title-cased key with a stringified value.
func formatEntry(entry map[string]any) Entry {
	// cases.Caser carries internal transform buffers and is not safe for
	// concurrent use; build one per call.
	titler := cases.Title(language.English)

	fields := make(map[string]string, len(entry))
	keys := make([]string, 0, len(entry))
	for key := range entry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	displayKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		value := entry[key]
		switch key {
		case "type":
			s, _ := value.(string)
			fields["Type"] = titler.String(strings.ReplaceAll(s, "_", " "))
			displayKeys = append(displayKeys, "Type")
		case "time":
			fields["Time"] = timeString(value)
			displayKeys = append(displayKeys, "Time")
		case "wad":
			fields["Wad"] = wadString(value)
			displayKeys = append(displayKeys, "Wad")
		default:
			displayKey := titler.String(key)
			fields[displayKey] = fmt.Sprintf("%v", value)
			displayKeys = append(displayKeys, displayKey)
		}
	}
	return Entry{Fields: fields, Keys: displayKeys}
}

func wadString(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	w, err := wad.FromMap(m)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return w.String()
}

func timeString(v any) string {
	switch ts := v.(type) {
	case float64:
		sec := int64(ts)
		nsec := int64((ts - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC().Format(displayTimeLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}
