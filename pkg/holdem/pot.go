package holdem

import "sort"

// SidePot is a slice of the total pot that only some players are eligible to
// win, arising from unequal all-in amounts. The set of side pots partitions
// the chips contributed this hand with no overlap and no loss.
type SidePot struct {
	Amount        int   `json:"amount"`
	EligibleSeats []int `json:"eligibleSeats"`
}

// SidePots is an ordered list of side pots, main pot first
type SidePots []SidePot

// Total returns the combined amount across all pots
func (s SidePots) Total() int {
	total := 0
	for _, pot := range s {
		total += pot.Amount
	}

	return total
}

// buildSidePots layers the pot by walking the distinct committed amounts in
// ascending order. Each layer spans (previous threshold, threshold] and takes
// that span from every player who committed at least up to it; eligibility for
// a layer requires committing to its threshold and not folding. Players all-in
// below a threshold never appear in the layers above it.
func buildSidePots(players []*Player) SidePots {
	thresholds := make([]int, 0, len(players))
	seen := make(map[int]bool)
	for _, p := range players {
		if p.committed > 0 && !seen[p.committed] {
			seen[p.committed] = true
			thresholds = append(thresholds, p.committed)
		}
	}
	sort.Ints(thresholds)

	pots := make(SidePots, 0, len(thresholds))
	prev := 0
	for _, threshold := range thresholds {
		amount := 0
		eligible := make([]int, 0, len(players))
		for seat, p := range players {
			span := p.committed
			if span > threshold {
				span = threshold
			}

			if span > prev {
				amount += span - prev
			}

			if p.committed >= threshold && !p.Folded {
				eligible = append(eligible, seat)
			}
		}

		// a layer only folded players reached (an uncalled raise) falls to
		// the remaining live players
		if len(eligible) == 0 {
			for seat, p := range players {
				if p.inHand() {
					eligible = append(eligible, seat)
				}
			}
		}

		// adjacent layers with the same eligible set are one pot
		if n := len(pots); n > 0 && equalSeats(pots[n-1].EligibleSeats, eligible) {
			pots[n-1].Amount += amount
		} else {
			pots = append(pots, SidePot{Amount: amount, EligibleSeats: eligible})
		}

		prev = threshold
	}

	return pots
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
