package model

import "github.com/google/uuid"

type RoomID string

const EmptyRoomID RoomID = ""

// ConnID identifies a live transport connection. It is not stable across
// reconnects; identity within a room is carried by the username.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// Phase is the voting state of a room.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

// ParticipantView is the roster entry broadcast to the room. HasVoted is
// derived from the room's votes on every snapshot, never stored.
type ParticipantView struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	HasVoted bool   `json:"hasVoted"`
}
