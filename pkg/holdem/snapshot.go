package holdem

import "holdempoker-server/pkg/deck"

// SeatState is one seat as a particular viewer sees it
type SeatState struct {
	Seat       int        `json:"seat"`
	PlayerID   int64      `json:"playerId"`
	Name       string     `json:"name"`
	Stack      int        `json:"stack"`
	StreetBet  int        `json:"streetBet"`
	Folded     bool       `json:"folded"`
	SittingOut bool       `json:"sittingOut"`
	Controller Controller `json:"controller"`
	HoleCards  deck.Hand  `json:"holeCards"`
}

// Snapshot is the table as a particular viewer sees it. Hole cards belonging
// to other players are masked until showdown.
type Snapshot struct {
	Phase          Phase       `json:"phase"`
	Community      deck.Hand   `json:"community"`
	Pot            int         `json:"pot"`
	CurrentHighBet int         `json:"currentHighBet"`
	DealerSeat     int         `json:"dealerSeat"`
	ActiveSeat     int         `json:"activeSeat"`
	HandInProgress bool        `json:"handInProgress"`
	Seats          []SeatState `json:"seats"`
}

// Snapshot builds the masked view of the table for the given viewer.
// A viewer always sees their own hole cards; everyone else's stay hidden
// until showdown reveals the non-folded hands to the whole table.
func (g *Game) Snapshot(viewerID int64) *Snapshot {
	seats := make([]SeatState, len(g.players))
	for seat, p := range g.players {
		var hole deck.Hand
		if p.ID == viewerID || (g.phase == PhaseShowdown && !p.Folded) {
			hole = p.HoleCards.Clone()
		} else {
			hole = deck.Hand{}
		}

		seats[seat] = SeatState{
			Seat:       seat,
			PlayerID:   p.ID,
			Name:       p.Name,
			Stack:      p.Stack,
			StreetBet:  p.StreetBet,
			Folded:     p.Folded,
			SittingOut: p.SittingOut,
			Controller: p.Controller,
			HoleCards:  hole,
		}
	}

	return &Snapshot{
		Phase:          g.phase,
		Community:      g.community.Clone(),
		Pot:            g.pot,
		CurrentHighBet: g.currentHighBet,
		DealerSeat:     g.dealerSeat,
		ActiveSeat:     g.activeSeat,
		HandInProgress: g.handInProgress,
		Seats:          seats,
	}
}
