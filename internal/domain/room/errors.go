package room

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNameRequired = errors.New("room name is required")
)
