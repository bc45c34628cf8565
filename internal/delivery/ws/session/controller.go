package ws_session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pulsecheck/core/internal/model"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	hub *Hub
	uc  *usecase_session.Usecase

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(hub *Hub, uc *usecase_session.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		hub:    hub,
		uc:     uc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sessions/:session_id/ws", c.sessionWS)
}

// sessionWS upgrades the connection and binds it to the room named in the
// path. The room itself is created lazily on the first join event, not here.
func (c *Controller) sessionWS(ctx *gin.Context) {
	roomID := ctx.Param("session_id")

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()))
		return
	}

	client := NewClient(c.hub, c.uc, conn, model.RoomID(roomID))
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
