package beacon

import (
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	b := NewRelay("wss://relay.example.com:443")

	encoded, err := b.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(encoded, Prefix) {
		t.Fatalf("expected %q prefix, got %q", Prefix, encoded)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Locations) != 1 {
		t.Fatalf("expected one location, got %d", len(decoded.Locations))
	}
	loc := decoded.Locations[0]
	if loc.Type != LocationTypeRelay || loc.Address != "wss://relay.example.com:443" {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestEncodeRequiresLocations(t *testing.T) {
	if _, err := (Beacon{}).Encode(); err == nil {
		t.Fatalf("expected error for empty beacon")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "nope", Prefix + "!!!not-base64!!!", Prefix} {
		if _, err := Decode(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
