package usecase_session

import (
	"context"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/pulsecheck/core/internal/model"
)

type SweeperSuite struct {
	suite.Suite
}

func (s *SweeperSuite) TestRun(t provider.T) {
	t.Run("Should evict an expired room on its own", func(t provider.T) {
		r := initResources(t, WithTTL(time.Minute))
		roomID := model.RoomID("999999")
		r.expectRoster(roomID)
		r.notifier.On("SessionClosed", roomID).Return().Once()

		r.join(t, roomID, "bob", true)

		r.usecase.mu.Lock()
		r.usecase.rooms[roomID].createdAt = time.Now().Add(-2 * time.Minute)
		r.usecase.mu.Unlock()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sweeper := NewSweeper(r.usecase, 5*time.Millisecond)
		go sweeper.Run(ctx)

		assert.Eventually(t, func() bool {
			return !r.usecase.Exists(roomID)
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Should stop on context cancellation", func(t provider.T) {
		r := initResources(t)

		ctx, cancel := context.WithCancel(context.Background())
		sweeper := NewSweeper(r.usecase, time.Millisecond)

		done := make(chan struct{})
		go func() {
			sweeper.Run(ctx)
			close(done)
		}()

		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Errorf("sweeper did not stop")
		}
	})
}

func TestSweeperSuite(t *testing.T) {
	suite.RunSuite(t, new(SweeperSuite))
}
