package holdem

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdempoker-server/pkg/deck"
)

// showdownGame wires a game directly into a river state so settlement can be
// exercised without scripting the betting
func showdownGame(t *testing.T, community string, players ...*Player) *Game {
	t.Helper()

	g, err := NewGame(logrus.StandardLogger(), DefaultOptions())
	require.NoError(t, err)

	pot := 0
	chips := 0
	for _, p := range players {
		require.NoError(t, g.AddPlayer(p))
		pot += p.committed
		chips += p.Stack
	}

	g.community = deck.CardsFromString(community)
	g.phase = PhaseRiver
	g.pot = pot
	g.handStartChips = chips + pot
	g.handInProgress = true
	g.dealerSeat = 0

	return g
}

func showdownPlayer(id int64, hole string, committed int) *Player {
	p := NewPlayer(id, fmt.Sprintf("player %d", id), 0, ControllerHuman)
	p.HoleCards = deck.CardsFromString(hole)
	p.committed = committed

	return p
}

func TestShowdown_bestHandTakesThePot(t *testing.T) {
	a := assert.New(t)

	g := showdownGame(t, "10c,6d,2h,13s,4s",
		showdownPlayer(1, "14c,9d", 100),
		showdownPlayer(2, "10h,10s", 100),
		showdownPlayer(3, "13h,5c", 100),
	)

	g.showdown()

	a.False(g.HandInProgress())
	a.Equal(0, g.Pot())

	payouts := g.Payouts()
	require.Equal(t, 1, len(payouts))
	a.Equal(1, payouts[0].Seat)
	a.Equal(int64(2), payouts[0].PlayerID)
	a.Equal(300, payouts[0].Amount)
	a.Equal("Three of a kind", payouts[0].HandName)
	a.Equal(300, g.Players()[1].Stack)
}

func TestShowdown_foldedHandsCannotWin(t *testing.T) {
	a := assert.New(t)

	folded := showdownPlayer(1, "14c,14d", 100)
	folded.Folded = true

	g := showdownGame(t, "10c,6d,2h,13s,4s",
		folded,
		showdownPlayer(2, "3h,3s", 100),
		showdownPlayer(3, "13h,5c", 100),
	)

	g.showdown()

	payouts := g.Payouts()
	require.Equal(t, 1, len(payouts))
	a.Equal(2, payouts[0].Seat, "the aces folded; the king-pair collects")
	a.Equal(300, payouts[0].Amount)
}

func TestShowdown_tieSplitsWithOddChipLeftOfDealer(t *testing.T) {
	a := assert.New(t)

	// the board plays for both: a straight to the nine
	g := showdownGame(t, "5c,6d,7h,8s,9s",
		showdownPlayer(1, "2c,3d", 12),
		showdownPlayer(2, "2h,3s", 13),
	)
	g.dealerSeat = 1

	g.showdown()

	payouts := g.Payouts()
	require.Equal(t, 2, len(payouts))

	// seat 0 is first left of the dealer and takes the odd chip
	a.Equal(0, payouts[0].Seat)
	a.Equal(13, payouts[0].Amount)
	a.Equal(1, payouts[1].Seat)
	a.Equal(12, payouts[1].Amount)
	a.Equal(0, g.Pot())
}

func TestShowdown_sidePotsPaidLayerByLayer(t *testing.T) {
	a := assert.New(t)

	// three all-ins for 50, 150 and 300. The short stack holds the best hand
	// and can only win the main pot; the middle stack beats the deep stack for
	// the second pot; the deep stack's unmatched chips come back to him.
	g := showdownGame(t, "2c,7d,8h,13s,9s",
		showdownPlayer(1, "14c,14d", 50),
		showdownPlayer(2, "13h,10c", 150),
		showdownPlayer(3, "7c,5c", 300),
	)

	g.showdown()

	a.Equal(0, g.Pot())
	a.Equal(150, g.Players()[0].Stack)
	a.Equal(200, g.Players()[1].Stack)
	a.Equal(150, g.Players()[2].Stack)

	payouts := g.Payouts()
	require.Equal(t, 3, len(payouts))
	a.Equal(Payout{Seat: 0, PlayerID: 1, Amount: 150, HandName: "Pair"}, payouts[0])
	a.Equal(Payout{Seat: 1, PlayerID: 2, Amount: 200, HandName: "Pair"}, payouts[1])
	a.Equal(Payout{Seat: 2, PlayerID: 3, Amount: 150, HandName: "Pair"}, payouts[2])
}

func TestShowdown_potMismatchAbortsHand(t *testing.T) {
	a := assert.New(t)

	g := showdownGame(t, "10c,6d,2h,13s,4s",
		showdownPlayer(1, "14c,9d", 100),
		showdownPlayer(2, "10h,10s", 100),
	)

	// corrupt the pot so it no longer matches the committed amounts
	g.pot = 175

	g.showdown()

	a.False(g.HandInProgress())
	a.Nil(g.Payouts())
	a.Equal(0, g.Pot())
	a.Equal(100, g.Players()[0].Stack, "committed chips are refunded")
	a.Equal(100, g.Players()[1].Stack)
}

func TestSortBySeatOrder(t *testing.T) {
	g := testGame(t, 1000, 1000, 1000, 1000, 1000)
	g.dealerSeat = 2

	seats := []int{0, 4, 1, 3}
	g.sortBySeatOrder(seats)

	assert.Equal(t, []int{3, 4, 0, 1}, seats)
}
