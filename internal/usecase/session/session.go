package usecase_session

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/pulsecheck/core/internal/model"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrSessionFull       = errors.New("session is full")
	ErrVotingNotActive   = errors.New("voting is not active")
	ErrInvalidVote       = errors.New("invalid vote value")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrUnauthorized      = errors.New("unauthorized")
)

const (
	DefaultCapacity = 10
	DefaultTTL      = 24 * time.Hour

	MaxUsernameLen = 20
)

// Notifier fans room state changes out to connections. Delivery must be
// non-blocking per recipient: the usecase calls it while holding the room
// lock, and one stalled connection must not stall the room.
//
//go:generate mockery --name=Notifier --output=./mocks/notifier --filename=notifier.go
type Notifier interface {
	ParticipantsUpdated(roomID model.RoomID, roster []model.ParticipantView)
	VotingStarted(roomID model.RoomID)
	VotingStartedFor(connID model.ConnID)
	VotingEnded(roomID model.RoomID, tally model.Tally)
	VotingEndedFor(connID model.ConnID, tally model.Tally)
	SessionReset(roomID model.RoomID)
	// SessionClosed delivers the closure notice to everyone still joined and
	// then forcibly disconnects them.
	SessionClosed(roomID model.RoomID)
}

// Usecase is the session coordinator: it owns the id->room registry, applies
// round transitions, and drives broadcasts. Rooms are created lazily on
// first reference and dropped on emptiness, explicit closure or TTL expiry.
type Usecase struct {
	mu    sync.RWMutex
	rooms map[model.RoomID]*room

	notifier Notifier
	logger   *slog.Logger

	capacity int
	ttl      time.Duration
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithCapacity(capacity int) UsecaseOption {
	return func(u *Usecase) {
		if capacity > 0 {
			u.capacity = capacity
		}
	}
}

func WithTTL(ttl time.Duration) UsecaseOption {
	return func(u *Usecase) {
		if ttl > 0 {
			u.ttl = ttl
		}
	}
}

func New(notifier Notifier, opts ...UsecaseOption) *Usecase {
	u := &Usecase{
		rooms:    make(map[model.RoomID]*room),
		notifier: notifier,
		logger:   slog.Default(),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// lockRoom resolves roomID, creating an idle room when absent, and returns
// it with its mutex held. A room closed between lookup and lock is retried
// so a sweep racing a join cannot resurrect freed state.
func (u *Usecase) lockRoom(roomID model.RoomID) *room {
	for {
		u.mu.RLock()
		r, ok := u.rooms[roomID]
		u.mu.RUnlock()

		if !ok {
			u.mu.Lock()
			if r, ok = u.rooms[roomID]; !ok {
				r = newRoom(roomID)
				u.rooms[roomID] = r
			}
			u.mu.Unlock()
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			continue
		}
		return r
	}
}

// unlock releases r, reaping it from the registry when it was left empty.
// Room existence is occupancy-driven.
func (u *Usecase) unlock(r *room) {
	if !r.closed && len(r.participants) == 0 {
		r.closed = true
		r.mu.Unlock()
		u.remove(r.id, r)
		return
	}
	r.mu.Unlock()
}

// remove drops roomID from the registry only while it still resolves to r:
// a fresh room under a reused id must not be deleted by a stale remover.
func (u *Usecase) remove(roomID model.RoomID, r *room) {
	u.mu.Lock()
	if cur, ok := u.rooms[roomID]; ok && cur == r {
		delete(u.rooms, roomID)
	}
	u.mu.Unlock()
}

func (u *Usecase) Exists(roomID model.RoomID) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	_, ok := u.rooms[roomID]
	return ok
}

// Join registers connID in the room under username. A username held by a
// different live connection is rejected rather than taken over; a re-join by
// the same connection replaces its previous entry.
func (u *Usecase) Join(roomID model.RoomID, connID model.ConnID, username string, isAdmin bool) error {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > MaxUsernameLen {
		return ErrInvalidUsername
	}

	r := u.lockRoom(roomID)
	defer u.unlock(r)

	if p, ok := r.findByUsername(username); ok && p.connID != connID {
		return ErrDuplicateUsername
	}

	r.participants = lo.Reject(r.participants, func(p participant, _ int) bool {
		return p.connID == connID
	})

	if len(r.participants) >= u.capacity {
		return ErrSessionFull
	}

	r.participants = append(r.participants, participant{
		connID:   connID,
		username: username,
		isAdmin:  isAdmin,
	})

	u.notifier.ParticipantsUpdated(roomID, r.roster())

	// Bring a late joiner's view up to date without re-broadcasting the
	// round state to everyone else.
	switch r.phase {
	case model.PhaseVoting:
		u.notifier.VotingStartedFor(connID)
	case model.PhaseResults:
		if r.results != nil {
			u.notifier.VotingEndedFor(connID, *r.results)
		}
	}

	u.logger.Info("participant joined",
		"room_id", roomID,
		"username", username,
		"admin", isAdmin)
	return nil
}

// Leave removes the requester on an explicit leave. The asserted username
// must match the connection's registered identity, so a leave cannot evict
// somebody else's session.
func (u *Usecase) Leave(roomID model.RoomID, connID model.ConnID, username string) error {
	r := u.lockRoom(roomID)

	p, ok := r.findByConn(connID)
	if !ok || p.username != username {
		u.unlock(r)
		return ErrUnauthorized
	}

	u.removeLocked(r, func(q participant) bool {
		return q.connID == connID
	})
	return nil
}

// Disconnect is the transport-loss path: removal is keyed by connection, so
// an asserted username cannot evict somebody else's live session.
func (u *Usecase) Disconnect(roomID model.RoomID, connID model.ConnID) {
	u.removeParticipant(roomID, func(p participant) bool {
		return p.connID == connID
	})
}

func (u *Usecase) removeParticipant(roomID model.RoomID, match func(participant) bool) {
	r := u.lockRoom(roomID)
	u.removeLocked(r, match)
}

// removeLocked drops every matching participant and releases r.
func (u *Usecase) removeLocked(r *room, match func(participant) bool) {
	before := len(r.participants)
	r.participants = lo.Reject(r.participants, func(p participant, _ int) bool {
		return match(p)
	})
	removed := len(r.participants) != before

	// Votes stay keyed by username for the rest of the round, so a
	// reconnecting participant keeps their cast value.

	if len(r.participants) == 0 {
		roomID := r.id
		u.unlock(r)
		if removed {
			u.logger.Info("room emptied", "room_id", roomID)
		}
		return
	}

	if removed {
		u.notifier.ParticipantsUpdated(r.id, r.roster())
	}
	u.unlock(r)
}

// StartVoting opens a round: Idle/Results -> Voting. Admin only.
func (u *Usecase) StartVoting(roomID model.RoomID, connID model.ConnID) error {
	r := u.lockRoom(roomID)
	defer u.unlock(r)

	if !r.isAdminConn(connID) {
		return ErrUnauthorized
	}

	r.phase = model.PhaseVoting
	r.votes = make(map[string]model.Vote)
	r.results = nil

	u.notifier.VotingStarted(roomID)
	u.notifier.ParticipantsUpdated(roomID, r.roster())

	u.logger.Info("voting started", "room_id", roomID)
	return nil
}

// SubmitVote records connID's vote for the open round. A repeat vote by the
// same participant overwrites the previous value. When the last outstanding
// participant votes, the round closes inside the same critical section, so
// no observer can see phase=voting with everyone voted.
func (u *Usecase) SubmitVote(roomID model.RoomID, connID model.ConnID, vote model.Vote) error {
	if !vote.Valid() {
		return ErrInvalidVote
	}

	r := u.lockRoom(roomID)
	defer u.unlock(r)

	if r.phase != model.PhaseVoting {
		return ErrVotingNotActive
	}

	p, ok := r.findByConn(connID)
	if !ok {
		return ErrUnauthorized
	}

	r.votes[p.username] = vote
	u.notifier.ParticipantsUpdated(roomID, r.roster())

	if r.allVoted() {
		u.endRoundLocked(r)
	}
	return nil
}

// EndVoting closes the round early. Admin only; a no-op outside a round.
func (u *Usecase) EndVoting(roomID model.RoomID, connID model.ConnID) error {
	r := u.lockRoom(roomID)
	defer u.unlock(r)

	if !r.isAdminConn(connID) {
		return ErrUnauthorized
	}

	u.endRoundLocked(r)
	return nil
}

func (u *Usecase) endRoundLocked(r *room) {
	if r.phase != model.PhaseVoting {
		return
	}

	t := r.tally()
	r.results = &t
	r.phase = model.PhaseResults

	u.notifier.VotingEnded(r.id, t)

	u.logger.Info("round ended",
		"room_id", r.id,
		"votes", len(t.Votes),
		"skipped", t.Skipped)
}

// ResetVoting returns the room to idle and clears all round state. Admin
// only; idempotent.
func (u *Usecase) ResetVoting(roomID model.RoomID, connID model.ConnID) error {
	r := u.lockRoom(roomID)
	defer u.unlock(r)

	if !r.isAdminConn(connID) {
		return ErrUnauthorized
	}

	r.phase = model.PhaseIdle
	r.votes = make(map[string]model.Vote)
	r.results = nil

	u.notifier.SessionReset(roomID)
	u.notifier.ParticipantsUpdated(roomID, r.roster())

	u.logger.Info("session reset", "room_id", roomID)
	return nil
}

// CloseSession deletes the room outright. Admin only. Everyone still joined
// gets the closure notice and is disconnected; a later join under the same
// id starts a brand-new room.
func (u *Usecase) CloseSession(roomID model.RoomID, connID model.ConnID) error {
	r := u.lockRoom(roomID)

	if !r.isAdminConn(connID) {
		u.unlock(r)
		return ErrUnauthorized
	}

	r.closed = true
	r.participants = nil
	r.mu.Unlock()

	u.remove(roomID, r)
	u.notifier.SessionClosed(roomID)

	u.logger.Info("session closed", "room_id", roomID)
	return nil
}

// Sweep evicts every room older than the TTL, occupied or not. Expiry is
// wall-clock from creation and is not renewed by activity.
func (u *Usecase) Sweep(now time.Time) int {
	u.mu.Lock()
	var expired []*room
	for id, r := range u.rooms {
		// createdAt is immutable after publication, safe without the
		// room lock.
		if now.Sub(r.createdAt) > u.ttl {
			delete(u.rooms, id)
			expired = append(expired, r)
		}
	}
	u.mu.Unlock()

	for _, r := range expired {
		r.mu.Lock()
		r.closed = true
		r.participants = nil
		r.mu.Unlock()

		u.notifier.SessionClosed(r.id)
	}

	if len(expired) > 0 {
		u.logger.Info("swept expired rooms", "count", len(expired))
	}
	return len(expired)
}
