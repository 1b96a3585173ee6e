package werms

// Holding maps tiers to coin counts. Missing tiers count as zero.
type Holding map[Tier]int64

// Clone returns an independent copy of the holding.
func (h Holding) Clone() Holding {
	out := make(Holding, len(h))
	for t, n := range h {
		out[t] = n
	}

	return out
}

// Total returns the coin count summed across tiers.
func (h Holding) Total() int64 {
	var sum int64
	for _, n := range h {
		sum += n
	}

	return sum
}

// TierBalance is the aggregated view of one tier inside a Balance.
type TierBalance struct {
	Count      int64   `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// Balance is the displayable aggregate of a holding: per-tier counts and
// values plus overall totals.
type Balance struct {
	Tiers      map[Tier]TierBalance `json:"tiers"`
	TotalCoins int64                `json:"total_coins"`
	TotalValue float64              `json:"total_value"`
}

// Aggregate converts a stored holding into a Balance. Pure: the input is not
// mutated and calling it twice yields the same result. Every tier from the
// closed set appears in the output, zero-valued if absent from the holding.
func Aggregate(h Holding) Balance {
	b := Balance{Tiers: make(map[Tier]TierBalance, len(Tiers))}

	for _, t := range Tiers {
		count := h[t]
		value := float64(count) * UnitValue(t)

		b.Tiers[t] = TierBalance{Count: count, TotalValue: value}
		b.TotalCoins += count
		b.TotalValue += value
	}

	return b
}
