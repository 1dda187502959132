// Package beacon builds the serialized endpoint descriptors a wallet uses to
// pair with a custodial account. Beacons are minted on demand and never
// stored.
package beacon

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Prefix marks an encoded beacon string.
const Prefix = "beacon1"

// LocationTypeRelay is the only location type the front end mints.
const LocationTypeRelay = "relay"

// Location is one network endpoint a wallet may connect through.
type Location struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// Beacon bundles the locations a wallet can use to reach an account.
type Beacon struct {
	Locations   []Location `json:"locations"`
	GeneratedAt int64      `json:"generated_at"`
}

// NewRelay builds a beacon with a single relay location.
func NewRelay(address string) Beacon {
	return Beacon{
		Locations:   []Location{{Type: LocationTypeRelay, Address: address}},
		GeneratedAt: time.Now().Unix(),
	}
}

// Encode serializes the beacon to its wire string: compact JSON wrapped in
// url-safe base64 with the beacon prefix.
func (b Beacon) Encode() (string, error) {
	if len(b.Locations) == 0 {
		return "", fmt.Errorf("beacon has no locations")
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal beacon: %w", err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses an encoded beacon string.
func Decode(s string) (Beacon, error) {
	if !strings.HasPrefix(s, Prefix) {
		return Beacon{}, fmt.Errorf("missing %q prefix", Prefix)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, Prefix))
	if err != nil {
		return Beacon{}, fmt.Errorf("decode beacon: %w", err)
	}
	var b Beacon
	if err := json.Unmarshal(raw, &b); err != nil {
		return Beacon{}, fmt.Errorf("unmarshal beacon: %w", err)
	}
	if len(b.Locations) == 0 {
		return Beacon{}, fmt.Errorf("beacon has no locations")
	}
	return b, nil
}
