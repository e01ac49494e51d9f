package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"holdempoker-server/pkg/deck"
)

func TestGame_Snapshot_masksOtherHoleCards(t *testing.T) {
	a := assert.New(t)
	g := testGame(t, 1000, 1000, 1000)
	a.NoError(g.StartHand())

	snapshot := g.Snapshot(2)

	a.Equal(PhasePreFlop, snapshot.Phase)
	a.Equal(15, snapshot.Pot)
	a.Equal(3, len(snapshot.Seats))

	for _, seat := range snapshot.Seats {
		if seat.PlayerID == 2 {
			a.Equal(2, len(seat.HoleCards), "viewer sees their own cards")
		} else {
			a.Equal(0, len(seat.HoleCards), "opponents stay hidden")
		}
	}
}

func TestGame_Snapshot_spectatorSeesNoHoleCards(t *testing.T) {
	a := assert.New(t)
	g := testGame(t, 1000, 1000)
	a.NoError(g.StartHand())

	snapshot := g.Snapshot(0)
	for _, seat := range snapshot.Seats {
		a.Equal(0, len(seat.HoleCards))
	}
}

func TestGame_Snapshot_showdownRevealsLiveHandsOnly(t *testing.T) {
	a := assert.New(t)

	folded := showdownPlayer(1, "14c,14d", 100)
	folded.Folded = true

	g := showdownGame(t, "10c,6d,2h,13s,4s",
		folded,
		showdownPlayer(2, "3h,3s", 100),
		showdownPlayer(3, "13h,5c", 100),
	)
	g.showdown()

	snapshot := g.Snapshot(0)
	a.Equal(PhaseShowdown, snapshot.Phase)
	a.Equal(0, len(snapshot.Seats[0].HoleCards), "folded hands are never revealed")
	a.Equal(2, len(snapshot.Seats[1].HoleCards))
	a.Equal(2, len(snapshot.Seats[2].HoleCards))
}

func TestGame_Snapshot_isACopy(t *testing.T) {
	a := assert.New(t)
	g := testGame(t, 1000, 1000)
	a.NoError(g.StartHand())

	snapshot := g.Snapshot(1)
	snapshot.Seats[0].HoleCards.AddCard(deck.CardFromString("2c"))
	snapshot.Community.AddCard(deck.CardFromString("3c"))

	a.Equal(2, len(g.Players()[0].HoleCards))
	a.Equal(0, len(g.Community()))
}
