package room

import "errors"

// player-facing errors
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrInvalidPassword = errors.New("invalid room password")
	ErrNotHost         = errors.New("only the host may do that")
	ErrNotSeated       = errors.New("you are not seated at this table")
)
