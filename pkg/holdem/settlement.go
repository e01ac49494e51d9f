package holdem

import (
	"holdempoker-server/pkg/poker"
)

// showdown resolves the hand: side pots are built from the committed amounts,
// every live hand is evaluated, and each pot goes to the best hand among its
// eligible players. Ties split evenly; odd chips go to the earliest winner
// left of the dealer.
func (g *Game) showdown() {
	g.phase = PhaseShowdown
	g.activeSeat = -1
	g.actionQueue = nil

	pots := buildSidePots(g.players)
	if pots.Total() != g.pot {
		g.invariantViolation("side pots do not partition the pot")
		return
	}

	results := make(map[int]*poker.Result)
	for seat, p := range g.players {
		if !p.inHand() {
			continue
		}

		result, err := poker.Evaluate(p.HoleCards, g.community)
		if err != nil {
			g.invariantViolation("could not evaluate a live hand: " + err.Error())
			return
		}

		results[seat] = result
	}

	payouts := make([]Payout, 0, len(pots))
	for _, pot := range pots {
		winners := potWinners(pot, results)
		if len(winners) == 0 {
			g.invariantViolation("side pot with no winner")
			return
		}

		g.sortBySeatOrder(winners)

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, seat := range winners {
			amount := share
			if i < remainder {
				amount++
			}

			p := g.players[seat]
			p.Stack += amount
			g.pot -= amount

			payouts = append(payouts, Payout{
				Seat:     seat,
				PlayerID: p.ID,
				Amount:   amount,
				HandName: results[seat].Name(),
			})
		}
	}

	g.payouts = payouts
	g.handInProgress = false
	g.checkChipConservation("showdown")
}

// potWinners returns the seats holding the best hand among a pot's eligible players
func potWinners(pot SidePot, results map[int]*poker.Result) []int {
	var best *poker.Result
	winners := make([]int, 0, len(pot.EligibleSeats))

	for _, seat := range pot.EligibleSeats {
		result, ok := results[seat]
		if !ok {
			continue
		}

		if best == nil || result.Beats(best) {
			best = result
			winners = winners[:0]
			winners = append(winners, seat)
		} else if result.Ties(best) {
			winners = append(winners, seat)
		}
	}

	return winners
}

// sortBySeatOrder orders seats by table position starting left of the dealer
func (g *Game) sortBySeatOrder(seats []int) {
	n := len(g.players)
	fromDealer := func(seat int) int {
		return ((seat - g.dealerSeat - 1) % n + n) % n
	}

	for i := 1; i < len(seats); i++ {
		for j := i; j > 0 && fromDealer(seats[j]) < fromDealer(seats[j-1]); j-- {
			seats[j], seats[j-1] = seats[j-1], seats[j]
		}
	}
}
