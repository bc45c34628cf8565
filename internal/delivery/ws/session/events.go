package ws_session

import (
	"encoding/json"
	"errors"

	"github.com/pulsecheck/core/internal/model"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

// Inbound event types. The dispatcher matches this closed set exhaustively;
// anything else is answered with a targeted error event.
const (
	EventJoin         = "join"
	EventStartVoting  = "startVoting"
	EventSubmitVote   = "submitVote"
	EventEndVoting    = "endVoting"
	EventResetVoting  = "resetVoting"
	EventCloseSession = "closeSession"
	EventLeave        = "leave"
)

// Outbound event types.
const (
	EventParticipantsUpdated = "participantsUpdated"
	EventVotingStarted       = "votingStarted"
	EventVotingEnded         = "votingEnded"
	EventSessionReset        = "sessionReset"
	EventSessionClosed       = "sessionClosed"
	EventError               = "error"
)

// Envelope is the wire frame for inbound events; the payload is decoded per
// event type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound frame.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type JoinPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required,max=20"`
	IsAdmin  bool   `json:"isAdmin"`
}

type RoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

// VotePayload carries the cast value as a pointer: a frame with the vote
// key absent or null is distinguishable from a cast, and rejected.
type VotePayload struct {
	RoomID   string      `json:"roomId" validate:"required"`
	Username string      `json:"username"`
	Vote     *model.Vote `json:"vote"`
}

type LeavePayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required,max=20"`
}

type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error kinds carried on the error event.
const (
	KindDuplicateUsername = "DuplicateUsername"
	KindSessionFull       = "SessionFull"
	KindVotingNotActive   = "VotingNotActive"
	KindInvalidVoteValue  = "InvalidVoteValue"
	KindInvalidUsername   = "InvalidUsername"
	KindUnauthorized      = "Unauthorized"
	KindBadEvent          = "BadEvent"
)

// errorEvent maps a coordinator error onto the wire error event targeted at
// the offending connection.
func errorEvent(err error) Event {
	kind := KindBadEvent
	switch {
	case errors.Is(err, usecase_session.ErrDuplicateUsername):
		kind = KindDuplicateUsername
	case errors.Is(err, usecase_session.ErrSessionFull):
		kind = KindSessionFull
	case errors.Is(err, usecase_session.ErrVotingNotActive):
		kind = KindVotingNotActive
	case errors.Is(err, usecase_session.ErrInvalidVote), errors.Is(err, model.ErrVoteOutOfRange):
		kind = KindInvalidVoteValue
	case errors.Is(err, usecase_session.ErrInvalidUsername):
		kind = KindInvalidUsername
	case errors.Is(err, usecase_session.ErrUnauthorized):
		kind = KindUnauthorized
	}

	return Event{
		Type: EventError,
		Payload: ErrorPayload{
			Kind:    kind,
			Message: err.Error(),
		},
	}
}

func badEvent(msg string) Event {
	return Event{
		Type: EventError,
		Payload: ErrorPayload{
			Kind:    KindBadEvent,
			Message: msg,
		},
	}
}
