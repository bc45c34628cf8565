package http_session

import (
	"log/slog"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	http_common "github.com/pulsecheck/core/internal/delivery/http/common"
	"github.com/pulsecheck/core/internal/model"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

// Controller is the stateless request/response boundary: it mints session
// codes and validates join requests. Whether a session actually exists is
// settled only when the realtime connection attempts to join it.
type Controller struct {
	uc *usecase_session.Usecase

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(uc *usecase_session.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		uc:     uc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", c.create)
		sessions.POST("/join", c.join)
	}
}

type CreateRequestDTO struct {
	Username string `json:"username" binding:"required,max=20"`
}

type CreateResponseDTO struct {
	SessionID string `json:"sessionId"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "username is required",
		})
		return
	}

	sessionID := c.resolveSessionID()

	c.logger.Info("session minted",
		"session_id", sessionID,
		"admin", req.Username)

	ctx.JSON(http.StatusOK, CreateResponseDTO{
		SessionID: string(sessionID),
	})
}

// Codes can collide with a live room; retry against registry occupancy.
func (c *Controller) resolveSessionID() model.RoomID {
	var sessionID model.RoomID
	for {
		sessionID = c.buildSessionID()
		if !c.uc.Exists(sessionID) {
			break
		}
	}
	return sessionID
}

func (c *Controller) buildSessionID() model.RoomID {
	const codeLen = 6
	var builder strings.Builder
	builder.Grow(codeLen)

	for range codeLen {
		builder.WriteByte(byte(rand.Intn(10)) + '0')
	}

	return model.RoomID(builder.String())
}

type JoinRequestDTO struct {
	SessionID string `json:"sessionId" binding:"required"`
	Username  string `json:"username" binding:"required,max=20"`
}

type JoinResponseDTO struct {
	Success bool `json:"success"`
}

func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "session id and username are required",
		})
		return
	}

	ctx.JSON(http.StatusOK, JoinResponseDTO{
		Success: true,
	})
}
