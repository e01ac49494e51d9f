package poker

import "holdempoker-server/pkg/deck"

// bestStraight returns the high rank of the best five-card straight the given
// ranks can form, or 0 if there is none. The input must be unique ranks in
// descending order. An ace also plays low, so A-2-3-4-5 yields 5.
func bestStraight(ranks []int) int {
	if len(ranks) == 0 {
		return 0
	}

	// the ace doubles as rank 1 for the wheel
	if ranks[0] == deck.HighAce {
		ranks = append(ranks, deck.LowAce)
	}

	streak := 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1]-1 {
			streak++
			if streak == 5 {
				return ranks[i] + 4
			}
		} else {
			streak = 1
		}
	}

	return 0
}
