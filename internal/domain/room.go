// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrEmptyRoomID       = errors.New("room id empty")
	ErrMalformedMessage  = errors.New("malformed message")
	ErrUnknownConnection = errors.New("unknown connection")
)

type RoomID string

type Room struct {
	ID RoomID
}

// Reaction is a transient emoji signal scoped to a room. It is never stored.
type Reaction struct {
	RoomID RoomID `json:"roomId"`
	Emoji  string `json:"emoji"`
}

func (r Reaction) Validate() error {
	if r.RoomID == "" || r.Emoji == "" {
		return ErrMalformedMessage
	}
	return nil
}
