package holdem

import "errors"

// player-facing action errors. These are recoverable: the action is rejected,
// no state changes, and only the acting player is told.
var (
	// ErrNotYourTurn is an error when a player acts out of turn
	ErrNotYourTurn = errors.New("it is not your turn")

	// ErrCannotCheck is an error when a player checks while facing a bet
	ErrCannotCheck = errors.New("you cannot check with an active bet")

	// ErrCannotCall is an error when a player calls with no active bet
	ErrCannotCall = errors.New("you cannot call without an active bet")

	// ErrInvalidRaise is an error when the raise amount is zero or negative
	ErrInvalidRaise = errors.New("raise amount must be greater than zero")

	// ErrInsufficientChips is an error when a raise exceeds the player's stack
	ErrInsufficientChips = errors.New("not enough chips; go all-in instead")

	// ErrHandInProgress is an error when a hand is already being played
	ErrHandInProgress = errors.New("a hand is already in progress")

	// ErrNoHandInProgress is an error when no hand is being played
	ErrNoHandInProgress = errors.New("no hand is in progress")

	// ErrNotEnoughPlayers is an error when a hand cannot start with fewer than two players
	ErrNotEnoughPlayers = errors.New("at least two players with chips are required")
)
