package poker

import (
	"errors"
	"sort"

	"holdempoker-server/pkg/deck"
)

// ErrInvalidCardCount is an error when Evaluate is called with the wrong number of cards
var ErrInvalidCardCount = errors.New("evaluate requires two hole cards and up to five community cards")

type sortByRank deck.Hand

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	return s[i].Rank < s[j].Rank
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Evaluate returns the best five-card result the hole and community cards can
// make. The hole must contain exactly two cards and the community zero through
// five. Evaluate is pure: the inputs are never modified.
func Evaluate(hole, community []*deck.Card) (*Result, error) {
	if len(hole) != 2 || len(community) > 5 {
		return nil, ErrInvalidCardCount
	}

	cards := make(deck.Hand, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)
	sort.Sort(sort.Reverse(sortByRank(cards)))

	a := analyze(cards)
	return a.result(), nil
}

// analysis holds the intermediate card groupings used to pick the best category
type analysis struct {
	cards deck.Hand // sorted descending by rank

	quads []int
	trips []int
	pairs []int

	flush         []int // top five ranks of the flush suit
	straight      int   // high rank, or 0
	straightFlush int   // high rank, or 0
}

func analyze(sorted deck.Hand) *analysis {
	a := &analysis{cards: sorted}

	// group runs of equal rank (cards are rank-sorted)
	runRank := sorted[0].Rank
	runLength := 0
	flushRanks := make(map[deck.Suit][]int)

	for _, card := range sorted {
		if card.Rank == runRank {
			runLength++
		} else {
			a.recordRun(runRank, runLength)
			runRank = card.Rank
			runLength = 1
		}

		flushRanks[card.Suit] = append(flushRanks[card.Suit], card.Rank)
	}
	a.recordRun(runRank, runLength)

	for _, ranks := range flushRanks {
		if len(ranks) >= 5 {
			a.flush = ranks[0:5]
			a.straightFlush = bestStraight(uniqueRanks(ranks))
		}
	}

	a.straight = bestStraight(uniqueRanks(ranksOf(sorted)))

	return a
}

func (a *analysis) recordRun(rank, length int) {
	switch length {
	case 4:
		a.quads = append(a.quads, rank)
	case 3:
		a.trips = append(a.trips, rank)
	case 2:
		a.pairs = append(a.pairs, rank)
	}
}

// result selects the best category in priority order and assembles its tiebreakers
func (a *analysis) result() *Result {
	if a.straightFlush > 0 {
		return &Result{Category: StraightFlush, TieBreakers: []int{a.straightFlush}}
	}

	if len(a.quads) > 0 {
		quad := a.quads[0]
		return &Result{Category: FourOfAKind, TieBreakers: append([]int{quad}, a.kickers(1, quad)...)}
	}

	if fh := a.fullHouse(); fh != nil {
		return &Result{Category: FullHouse, TieBreakers: fh}
	}

	if a.flush != nil {
		return &Result{Category: Flush, TieBreakers: a.flush}
	}

	if a.straight > 0 {
		return &Result{Category: Straight, TieBreakers: []int{a.straight}}
	}

	if len(a.trips) > 0 {
		trip := a.trips[0]
		return &Result{Category: ThreeOfAKind, TieBreakers: append([]int{trip}, a.kickers(2, trip)...)}
	}

	if len(a.pairs) >= 2 {
		high, low := a.pairs[0], a.pairs[1]
		return &Result{Category: TwoPair, TieBreakers: append([]int{high, low}, a.kickers(1, high, low)...)}
	}

	if len(a.pairs) == 1 {
		pair := a.pairs[0]
		return &Result{Category: OnePair, TieBreakers: append([]int{pair}, a.kickers(3, pair)...)}
	}

	return &Result{Category: HighCard, TieBreakers: a.kickers(5)}
}

// fullHouse returns [trips, pair] or nil. With seven cards the pair may come
// from a second set of trips; the higher candidate wins.
func (a *analysis) fullHouse() []int {
	if len(a.trips) == 0 {
		return nil
	}

	pair := -1
	if len(a.pairs) > 0 {
		pair = a.pairs[0]
	}

	if len(a.trips) >= 2 && a.trips[1] > pair {
		pair = a.trips[1]
	}

	if pair < 0 {
		return nil
	}

	return []int{a.trips[0], pair}
}

// kickers returns up to n of the highest ranks not present in exclude
func (a *analysis) kickers(n int, exclude ...int) []int {
	kickers := make([]int, 0, n)

	for _, card := range a.cards {
		skip := false
		for _, ex := range exclude {
			if card.Rank == ex {
				skip = true
				break
			}
		}

		if skip {
			continue
		}

		kickers = append(kickers, card.Rank)
		if len(kickers) == n {
			break
		}
	}

	return kickers
}

func ranksOf(cards deck.Hand) []int {
	ranks := make([]int, len(cards))
	for i, card := range cards {
		ranks[i] = card.Rank
	}

	return ranks
}

// uniqueRanks deduplicates a descending-sorted rank list, preserving order
func uniqueRanks(sorted []int) []int {
	unique := make([]int, 0, len(sorted))
	prev := -1
	for _, rank := range sorted {
		if rank != prev {
			unique = append(unique, rank)
			prev = rank
		}
	}

	return unique
}
