package usecase_session

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/pulsecheck/core/internal/model"
)

type participant struct {
	connID   model.ConnID
	username string
	isAdmin  bool
}

// room is the state of one voting session. Every mutation happens under mu;
// operations on different rooms never contend.
type room struct {
	mu sync.Mutex

	id        model.RoomID
	createdAt time.Time

	phase        model.Phase
	participants []participant
	votes        map[string]model.Vote
	results      *model.Tally

	// closed marks a room removed from the registry. Callers that find it
	// set must re-resolve the id instead of mutating freed state.
	closed bool
}

func newRoom(id model.RoomID) *room {
	return &room{
		id:        id,
		createdAt: time.Now(),
		phase:     model.PhaseIdle,
		votes:     make(map[string]model.Vote),
	}
}

// roster builds the broadcast snapshot in join order. hasVoted is recomputed
// from the votes map so it cannot drift from the actual round state.
func (r *room) roster() []model.ParticipantView {
	return lo.Map(r.participants, func(p participant, _ int) model.ParticipantView {
		_, voted := r.votes[p.username]
		return model.ParticipantView{
			Username: p.username,
			IsAdmin:  p.isAdmin,
			HasVoted: voted,
		}
	})
}

// allVoted gates the auto-close rule. The admin facilitates the round and is
// never handed a ballot, so only non-admin participants count; a round with
// no voters never auto-closes.
func (r *room) allVoted() bool {
	voters := lo.Filter(r.participants, func(p participant, _ int) bool {
		return !p.isAdmin
	})
	if len(voters) == 0 {
		return false
	}
	return lo.EveryBy(voters, func(p participant) bool {
		_, ok := r.votes[p.username]
		return ok
	})
}

func (r *room) tally() model.Tally {
	t := model.Tally{Votes: make([]int, 0, len(r.votes))}
	for _, v := range r.votes {
		if v.IsSkip() {
			t.Skipped++
		} else {
			t.Votes = append(t.Votes, int(v))
		}
	}
	return t
}

func (r *room) findByConn(connID model.ConnID) (participant, bool) {
	p, _, ok := lo.FindIndexOf(r.participants, func(p participant) bool {
		return p.connID == connID
	})
	return p, ok
}

func (r *room) findByUsername(username string) (participant, bool) {
	p, _, ok := lo.FindIndexOf(r.participants, func(p participant) bool {
		return p.username == username
	})
	return p, ok
}

func (r *room) isAdminConn(connID model.ConnID) bool {
	p, ok := r.findByConn(connID)
	return ok && p.isAdmin
}
