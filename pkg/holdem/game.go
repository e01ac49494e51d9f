package holdem

import (
	"errors"

	"github.com/sirupsen/logrus"

	"holdempoker-server/internal/rng"
	"holdempoker-server/pkg/deck"
)

// Options configures how a table plays
type Options struct {
	SmallBlind int
	BigBlind   int

	// Seed pins the shuffle for tests. 0 draws a crypto-quality seed per hand.
	Seed int64
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		SmallBlind: 5,
		BigBlind:   10,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	return nil
}

// Game is the betting engine for one table. It is a sequential state machine:
// the caller is responsible for never mutating it from two goroutines at once.
type Game struct {
	log     logrus.FieldLogger
	options Options
	players []*Player

	deck           *deck.Deck
	phase          Phase
	community      deck.Hand
	pot            int
	currentHighBet int
	dealerSeat     int
	activeSeat     int
	actionQueue    []int

	handInProgress bool
	handCount      int
	payouts        []Payout

	// handStartChips is the chip total at hand start; every mutation must
	// preserve sum(stacks) + pot == handStartChips
	handStartChips int
}

// Payout is one side pot's award to one winner
type Payout struct {
	Seat     int    `json:"seat"`
	PlayerID int64  `json:"playerId"`
	Amount   int    `json:"amount"`
	HandName string `json:"handName"`
}

// NewGame returns a new table engine with no seated players
func NewGame(logger logrus.FieldLogger, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	return &Game{
		log:        logger,
		options:    opts,
		players:    make([]*Player, 0, 8),
		dealerSeat: -1,
		activeSeat: -1,
	}, nil
}

// AddPlayer seats a player at the next free seat.
// Players may only be added between hands.
func (g *Game) AddPlayer(p *Player) error {
	if g.handInProgress {
		return ErrHandInProgress
	}

	g.players = append(g.players, p)
	return nil
}

// RemovePlayer removes the player from the table.
// Players may only be removed between hands; cancel or finish the hand first.
func (g *Game) RemovePlayer(id int64) error {
	if g.handInProgress {
		return ErrHandInProgress
	}

	for i, p := range g.players {
		if p.ID == id {
			g.players = append(g.players[:i], g.players[i+1:]...)
			if g.dealerSeat >= len(g.players) {
				g.dealerSeat = len(g.players) - 1
			}
			return nil
		}
	}

	return errors.New("player is not seated")
}

// Players returns the seats in order
func (g *Game) Players() []*Player {
	return g.players
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Community returns the community cards dealt so far
func (g *Game) Community() deck.Hand {
	return g.community
}

// Pot returns the chips in the pot
func (g *Game) Pot() int {
	return g.pot
}

// CurrentHighBet returns the street's bet to match
func (g *Game) CurrentHighBet() int {
	return g.currentHighBet
}

// DealerSeat returns the dealer button's seat, or -1 before the first hand
func (g *Game) DealerSeat() int {
	return g.dealerSeat
}

// ActiveSeat returns the seat whose turn it is, or -1 if no one is to act
func (g *Game) ActiveSeat() int {
	return g.activeSeat
}

// HandInProgress returns true while a hand is being played
func (g *Game) HandInProgress() bool {
	return g.handInProgress
}

// HandCount returns how many hands have been started. It also serves as a
// generation number: scheduled work that outlives its hand can compare counts
// and no-op.
func (g *Game) HandCount() int {
	return g.handCount
}

// Payouts returns who won what once the hand has resolved, one entry per
// side-pot winner. It is nil while a hand is in progress.
func (g *Game) Payouts() []Payout {
	return g.payouts
}

// StartHand begins a new hand: fresh deck, dealer advances one seat, blinds
// posted (clamped to short stacks), two hole cards per eligible player, and
// the action queue built from the seat three after the dealer.
func (g *Game) StartHand() error {
	if g.handInProgress {
		return ErrHandInProgress
	}

	eligible := 0
	for _, p := range g.players {
		if p.Stack > 0 && !p.SittingOut {
			eligible++
		}
	}

	if eligible < 2 {
		return ErrNotEnoughPlayers
	}

	for _, p := range g.players {
		p.resetForHand()
	}

	seed := g.options.Seed
	if seed == 0 {
		seed = rng.Seed()
	}

	g.deck = deck.New()
	g.deck.Shuffle(seed)
	g.community = make(deck.Hand, 0, 5)
	g.pot = 0
	g.payouts = nil
	g.phase = PhasePreFlop
	g.handCount++

	g.handStartChips = 0
	for _, p := range g.players {
		g.handStartChips += p.Stack
	}

	g.dealerSeat = g.nextEligibleSeat(g.dealerSeat + 1)

	smallBlindSeat := g.nextEligibleSeat(g.dealerSeat + 1)
	bigBlindSeat := g.nextEligibleSeat(smallBlindSeat + 1)
	g.pot += g.players[smallBlindSeat].pay(g.options.SmallBlind)
	g.pot += g.players[bigBlindSeat].pay(g.options.BigBlind)
	g.currentHighBet = g.options.BigBlind

	for i := 0; i < 2; i++ {
		for offset := 0; offset < len(g.players); offset++ {
			seat := (g.dealerSeat + 1 + offset) % len(g.players)
			p := g.players[seat]
			if p.SittingOut || (p.Stack == 0 && p.committed == 0) {
				continue
			}

			card, err := g.deck.Draw()
			if err != nil {
				g.invariantViolation("deck exhausted while dealing hole cards")
				return errors.New("deal failed")
			}

			p.HoleCards.AddCard(card)
		}
	}

	g.handInProgress = true
	g.populateQueue(g.dealerSeat+3, -1)
	g.activeSeat = -1

	g.checkChipConservation("hand start")
	g.advance()

	return nil
}

// Act applies a betting decision for the given seat. Illegal actions are
// rejected with a player-facing error and no state change.
func (g *Game) Act(seat int, action Action) error {
	if !g.handInProgress {
		return ErrNoHandInProgress
	}

	if seat != g.activeSeat {
		return ErrNotYourTurn
	}

	p := g.players[seat]

	switch action.Type {
	case ActionFold:
		p.Folded = true

	case ActionCheck:
		if p.StreetBet != g.currentHighBet {
			return ErrCannotCheck
		}

	case ActionCall:
		owed := g.currentHighBet - p.StreetBet
		if owed <= 0 {
			return ErrCannotCall
		}

		// a short call is an all-in
		g.pot += p.pay(owed)

	case ActionRaise:
		if action.Amount <= 0 {
			return ErrInvalidRaise
		}

		newTotal := g.currentHighBet + action.Amount
		if newTotal-p.StreetBet > p.Stack {
			return ErrInsufficientChips
		}

		g.pot += p.pay(newTotal - p.StreetBet)
		g.currentHighBet = newTotal
		g.populateQueue(seat+1, seat)

	case ActionAllIn:
		newTotal := p.StreetBet + p.Stack
		g.pot += p.pay(p.Stack)

		// a short all-in is a call and must not reopen the action
		if newTotal > g.currentHighBet {
			g.currentHighBet = newTotal
			g.populateQueue(seat+1, seat)
		}

	default:
		return errors.New("unknown action")
	}

	g.activeSeat = -1
	g.checkChipConservation(string(action.Type))
	g.advance()

	return nil
}

// advance is the single entry point that drives the state machine forward:
// it finds the next player to act, or advances the phase, or resolves the
// hand, looping until the table is waiting on a decision or the hand is over.
func (g *Game) advance() {
	for g.handInProgress {
		live := 0
		lastLive := -1
		for seat, p := range g.players {
			if p.inHand() {
				live++
				lastLive = seat
			}
		}

		if live == 1 {
			g.finishUncontested(lastLive)
			return
		}

		for len(g.actionQueue) > 0 {
			seat := g.actionQueue[0]
			g.actionQueue = g.actionQueue[1:]

			if g.players[seat].canAct() {
				g.activeSeat = seat
				return
			}
		}

		if g.phase == PhaseRiver {
			g.showdown()
			return
		}

		g.nextPhase()
	}
}

// nextPhase resets street bets, deals the next community cards, and rebuilds
// the action queue starting left of the dealer
func (g *Game) nextPhase() {
	for _, p := range g.players {
		p.StreetBet = 0
	}
	g.currentHighBet = 0

	g.phase++
	for i := 0; i < g.phase.communityCardCount(); i++ {
		card, err := g.deck.Draw()
		if err != nil {
			g.invariantViolation("deck exhausted while dealing community cards")
			return
		}

		g.community.AddCard(card)
	}

	g.populateQueue(g.dealerSeat+1, -1)
	g.activeSeat = -1
}

// populateQueue rebuilds the action queue from the given seat, walking the
// table once. A raise reopens the action this way: everyone who can still act
// re-enters except the raiser.
func (g *Game) populateQueue(start, exclude int) {
	n := len(g.players)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if seat == exclude {
			continue
		}

		if g.players[seat].canAct() {
			queue = append(queue, seat)
		}
	}

	g.actionQueue = queue
}

// nextEligibleSeat returns the first seat at or after the given one that can
// be dealt into a hand
func (g *Game) nextEligibleSeat(seat int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		candidate := ((seat + i) % n + n) % n
		p := g.players[candidate]
		if p.Stack > 0 && !p.SittingOut {
			return candidate
		}
	}

	panic("no eligible seats")
}

// finishUncontested awards the whole pot to the last live player without a
// showdown. No further cards are dealt and no hands are revealed.
func (g *Game) finishUncontested(seat int) {
	p := g.players[seat]
	amount := g.pot

	p.Stack += amount
	g.pot = 0
	g.payouts = []Payout{{
		Seat:     seat,
		PlayerID: p.ID,
		Amount:   amount,
		HandName: "Opponents folded",
	}}

	g.handInProgress = false
	g.activeSeat = -1
	g.actionQueue = nil
	g.checkChipConservation("uncontested win")
}

// CancelHand abandons the hand in progress. Chips already committed stay in
// the abandoned pot and are forfeited; this mirrors how the table behaves
// when player churn makes the hand unplayable.
func (g *Game) CancelHand() {
	if !g.handInProgress {
		return
	}

	g.log.WithField("hand", g.handCount).Warn("hand cancelled")

	g.pot = 0
	g.handInProgress = false
	g.activeSeat = -1
	g.actionQueue = nil
	g.payouts = nil
	g.community = make(deck.Hand, 0, 5)
	for _, p := range g.players {
		p.resetForHand()
	}
}

// abortHand rolls the hand back to the last consistent state: every player
// takes back what they committed and the hand ends with no result
func (g *Game) abortHand() {
	for _, p := range g.players {
		p.Stack += p.committed
		p.committed = 0
		p.StreetBet = 0
	}

	g.pot = 0
	g.handInProgress = false
	g.activeSeat = -1
	g.actionQueue = nil
	g.payouts = nil
}

// invariantViolation is a defect, never a game event. It is logged loudly and
// the hand is aborted cleanly rather than playing on with corrupt chip counts.
func (g *Game) invariantViolation(msg string) {
	g.log.WithFields(logrus.Fields{
		"hand":  g.handCount,
		"phase": g.phase.String(),
		"pot":   g.pot,
	}).Errorf("invariant violation: %s", msg)

	g.abortHand()
}

// checkChipConservation verifies no chips appeared or vanished
func (g *Game) checkChipConservation(context string) {
	if !g.handInProgress && g.handStartChips == 0 {
		return
	}

	total := g.pot
	for _, p := range g.players {
		total += p.Stack
	}

	if total != g.handStartChips {
		g.invariantViolation("chip conservation broken (" + context + ")")
	}
}
