package holdem

import "holdempoker-server/pkg/deck"

// Controller identifies what drives a player's decisions. The engine itself
// never branches on it; it exists so the session layer knows which seats to
// schedule scripted decisions for.
type Controller string

// controller constants
const (
	ControllerHuman    Controller = "human"
	ControllerScripted Controller = "scripted"
)

// Player is a seat at the table. A player is owned by exactly one session
// and mutated only by its game.
type Player struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Stack      int        `json:"stack"`
	Controller Controller `json:"controller"`

	// per-hand state
	HoleCards  deck.Hand `json:"holeCards"`
	StreetBet  int       `json:"streetBet"`
	Folded     bool      `json:"folded"`
	SittingOut bool      `json:"sittingOut"`

	// committed is the total this player has put in the pot this hand,
	// across all streets. It drives the side-pot layering.
	committed int
}

// NewPlayer returns a player with the given starting stack
func NewPlayer(id int64, name string, stack int, controller Controller) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Stack:      stack,
		Controller: controller,
	}
}

// resetForHand clears all per-hand state
func (p *Player) resetForHand() {
	p.HoleCards = make(deck.Hand, 0, 2)
	p.StreetBet = 0
	p.Folded = false
	p.committed = 0
}

// inHand returns true if the player was dealt in and has not folded
func (p *Player) inHand() bool {
	return len(p.HoleCards) == 2 && !p.Folded
}

// canAct returns true if the player may still make betting decisions
func (p *Player) canAct() bool {
	return p.inHand() && p.Stack > 0
}

// pay moves up to amount from the stack and returns how much actually moved.
// A short payment means the player is now all-in.
func (p *Player) pay(amount int) int {
	if amount > p.Stack {
		amount = p.Stack
	}

	p.Stack -= amount
	p.StreetBet += amount
	p.committed += amount

	return amount
}
