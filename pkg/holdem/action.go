package holdem

import "fmt"

// ActionType is a betting decision a player can make
type ActionType string

// action constants
const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "allIn"
)

// Action is a player's betting decision. Amount is only meaningful for raises,
// where it is the increment above the current high bet.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount"`
}

// ActionFromString parses an action name
func ActionFromString(name string, amount int) (Action, error) {
	switch ActionType(name) {
	case ActionFold, ActionCheck, ActionCall, ActionRaise, ActionAllIn:
		return Action{Type: ActionType(name), Amount: amount}, nil
	}

	return Action{}, fmt.Errorf("%s is not a valid action", name)
}
