package poker

import (
	"errors"
	"math/rand"
	"runtime"

	"holdempoker-server/pkg/deck"
)

// DefaultEquityTrials is how many simulations EstimateEquity runs by default
const DefaultEquityTrials = 300

// ErrNotEnoughCards is an error when the remaining deck cannot cover the
// simulated opponents and the rest of the board
var ErrNotEnoughCards = errors.New("not enough cards left to simulate")

// UniformEquity is the fallback estimate when a simulation cannot run:
// every seat is treated as equally likely to win.
func UniformEquity(opponents int) float64 {
	if opponents < 1 {
		opponents = 1
	}

	return 1 / float64(opponents+1)
}

// EstimateEquity estimates the probability that the hole cards win against
// `opponents` random hands by Monte Carlo simulation: each trial shuffles the
// unseen cards, deals two to every opponent, completes the board to five, and
// compares results. Ties count as half a win. Trials are split across workers;
// the caller must not mutate hole or community while a run is in flight.
func EstimateEquity(hole, community []*deck.Card, opponents, trials int) (float64, error) {
	return estimateEquity(hole, community, opponents, trials, rand.Int63())
}

// EstimateEquitySeeded is EstimateEquity with a deterministic seed, for tests
func EstimateEquitySeeded(hole, community []*deck.Card, opponents, trials int, seed int64) (float64, error) {
	return estimateEquity(hole, community, opponents, trials, seed)
}

func estimateEquity(hole, community []*deck.Card, opponents, trials int, seed int64) (float64, error) {
	if len(hole) != 2 || len(community) > 5 {
		return 0, ErrInvalidCardCount
	}

	if opponents < 1 {
		opponents = 1
	}

	if trials < 1 {
		trials = DefaultEquityTrials
	}

	remaining := remainingCards(hole, community)
	needed := opponents*2 + (5 - len(community))
	if len(remaining) < needed {
		return 0, ErrNotEnoughCards
	}

	workers := runtime.NumCPU()
	if workers > trials {
		workers = trials
	}

	type tally struct {
		wins, ties int
	}

	results := make(chan tally, workers)
	for w := 0; w < workers; w++ {
		share := trials / workers
		if w < trials%workers {
			share++
		}

		go func(share int, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			cards := make([]*deck.Card, len(remaining))
			copy(cards, remaining)

			var t tally
			for i := 0; i < share; i++ {
				won, tied := runTrial(rng, cards, hole, community, opponents)
				if won {
					if tied {
						t.ties++
					} else {
						t.wins++
					}
				}
			}

			results <- t
		}(share, seed+int64(w))
	}

	wins, ties := 0, 0
	for w := 0; w < workers; w++ {
		t := <-results
		wins += t.wins
		ties += t.ties
	}

	return (float64(wins) + 0.5*float64(ties)) / float64(trials), nil
}

// runTrial plays out a single random board and returns whether the hero won,
// and if the win was shared. cards is shuffled in place.
func runTrial(rng *rand.Rand, cards []*deck.Card, hole, community []*deck.Card, opponents int) (won, tied bool) {
	for j := len(cards) - 1; j > 0; j-- {
		i := rng.Intn(j + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	next := 0
	opponentHoles := make([][]*deck.Card, opponents)
	for i := range opponentHoles {
		opponentHoles[i] = cards[next : next+2]
		next += 2
	}

	board := make([]*deck.Card, 0, 5)
	board = append(board, community...)
	for len(board) < 5 {
		board = append(board, cards[next])
		next++
	}

	hero, err := Evaluate(hole, board)
	if err != nil {
		panic(err)
	}

	won = true
	for _, opponentHole := range opponentHoles {
		opponent, err := Evaluate(opponentHole, board)
		if err != nil {
			panic(err)
		}

		switch cmp := opponent.Compare(hero); {
		case cmp > 0:
			return false, false
		case cmp == 0:
			tied = true
		}
	}

	return won, tied
}

// remainingCards returns the 52-card deck minus all known cards
func remainingCards(hole, community []*deck.Card) []*deck.Card {
	known := make(deck.Hand, 0, len(hole)+len(community))
	known = append(known, hole...)
	known = append(known, community...)

	fresh := deck.New()
	remaining := make([]*deck.Card, 0, 52-len(known))
	for _, card := range fresh.Cards {
		if !known.HasCard(card) {
			remaining = append(remaining, card)
		}
	}

	return remaining
}
