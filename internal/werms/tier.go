// Package werms defines the currency model: the closed set of coin tiers,
// their unit values, and balance aggregation over per-tier holdings.
package werms

import "fmt"

// Tier is one denomination of werm coin.
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

// DefaultTier is what bare amounts in chat commands resolve to.
const DefaultTier = TierBronze

// Tiers lists all tiers in descending unit value. Iteration over holdings
// goes through this slice so output ordering is deterministic.
var Tiers = []Tier{TierGold, TierSilver, TierBronze}

// unitValues is the canonical AUD-equivalent value of one coin per tier.
var unitValues = map[Tier]float64{
	TierGold:   10.0,
	TierSilver: 3.0,
	TierBronze: 1.0,
}

// UnitValue returns the monetary value of a single coin of the given tier.
// The tier must come from the closed set; values for unknown tiers do not
// exist and callers are expected to validate via ParseTier first.
func UnitValue(t Tier) float64 {
	return unitValues[t]
}

// ParseTier validates a raw tier name against the closed set. Matching is
// case-sensitive: "Gold" is not a tier. Unknown names are an error, never a
// silent zero-value tier.
func ParseTier(raw string) (Tier, error) {
	t := Tier(raw)
	if _, ok := unitValues[t]; !ok {
		return "", fmt.Errorf("unknown tier %q", raw)
	}

	return t, nil
}

// IsTier reports whether raw names a tier, without allocating an error.
func IsTier(raw string) bool {
	_, ok := unitValues[Tier(raw)]
	return ok
}
