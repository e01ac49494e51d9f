package room

import (
	"holdempoker-server/pkg/holdem"
	"holdempoker-server/pkg/poker"
)

// equity above this is worth betting when checking is free
const botBetEquity = 0.6

// how far equity must clear the pot odds before a raise looks better than a call
const botRaiseMargin = 1.8

// botAction picks a betting decision for a scripted seat by weighing Monte
// Carlo equity against the pot odds
func botAction(g *holdem.Game, seat, trials int) holdem.Action {
	players := g.Players()
	p := players[seat]

	opponents := 0
	for other, op := range players {
		if other != seat && len(op.HoleCards) == 2 && !op.Folded {
			opponents++
		}
	}

	equity, err := poker.EstimateEquity(p.HoleCards, g.Community(), opponents, trials)
	if err != nil {
		equity = poker.UniformEquity(opponents)
	}

	owed := g.CurrentHighBet() - p.StreetBet

	return botDecide(equity, owed, g.Pot(), p.Stack)
}

// botDecide is the pure decision rule, split out so it can be tested without
// the randomness of the estimator
func botDecide(equity float64, owed, pot, stack int) holdem.Action {
	raiseBy := pot / 2
	if raiseBy < 1 {
		raiseBy = 1
	}

	if owed <= 0 {
		if equity > botBetEquity && raiseBy <= stack {
			return holdem.Action{Type: holdem.ActionRaise, Amount: raiseBy}
		}

		return holdem.Action{Type: holdem.ActionCheck}
	}

	potOdds := float64(owed) / float64(pot+owed)
	if equity < potOdds {
		return holdem.Action{Type: holdem.ActionFold}
	}

	if owed >= stack {
		return holdem.Action{Type: holdem.ActionAllIn}
	}

	if equity > potOdds*botRaiseMargin && equity > 0.5 && owed+raiseBy <= stack {
		return holdem.Action{Type: holdem.ActionRaise, Amount: raiseBy}
	}

	return holdem.Action{Type: holdem.ActionCall}
}
