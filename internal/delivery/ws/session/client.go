package ws_session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/pulsecheck/core/internal/model"
	usecase_session "github.com/pulsecheck/core/internal/usecase/session"
)

const sendBufferSize = 256

var validate = validator.New()

// Client adapts one WebSocket connection to the coordinator: it decodes
// inbound events, applies them via the usecase, and owns the outbound send
// queue the Hub writes into. The room id is connection metadata, read once
// at upgrade time; payload room ids are accepted on the wire but the bound
// room always wins.
type Client struct {
	ID     model.ConnID
	RoomID model.RoomID

	hub  *Hub
	uc   *usecase_session.Usecase
	conn *websocket.Conn

	send      chan Event
	closeOnce sync.Once

	logger *slog.Logger
}

func NewClient(hub *Hub, uc *usecase_session.Usecase, conn *websocket.Conn, roomID model.RoomID) *Client {
	return &Client{
		ID:     model.NewConnID(),
		RoomID: roomID,
		hub:    hub,
		uc:     uc,
		conn:   conn,
		send:   make(chan Event, sendBufferSize),
		logger: slog.Default(),
	}
}

// trySend enqueues without blocking; false means the buffer is full and the
// caller should treat the connection as gone.
func (c *Client) trySend(event Event) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump consumes inbound frames until the connection drops. Connection
// loss is an implicit leave.
func (c *Client) ReadPump() {
	defer func() {
		c.uc.Disconnect(c.RoomID, c.ID)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(raw)
	}
}

// WritePump drains the send queue onto the wire. It exits when the Hub
// closes the queue or the transport fails, closing the connection either
// way.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.sendToConn(c.ID, badEvent("malformed event"))
		return
	}

	var err error
	switch env.Type {
	case EventJoin:
		err = c.handleJoin(env.Payload)
	case EventStartVoting:
		err = c.handleRoomEvent(env.Payload, func() error {
			return c.uc.StartVoting(c.RoomID, c.ID)
		})
	case EventSubmitVote:
		err = c.handleSubmitVote(env.Payload)
	case EventEndVoting:
		err = c.handleRoomEvent(env.Payload, func() error {
			return c.uc.EndVoting(c.RoomID, c.ID)
		})
	case EventResetVoting:
		err = c.handleRoomEvent(env.Payload, func() error {
			return c.uc.ResetVoting(c.RoomID, c.ID)
		})
	case EventCloseSession:
		err = c.handleRoomEvent(env.Payload, func() error {
			return c.uc.CloseSession(c.RoomID, c.ID)
		})
	case EventLeave:
		err = c.handleLeave(env.Payload)
	default:
		c.hub.sendToConn(c.ID, badEvent("unknown event type: "+env.Type))
		return
	}

	// Errors are targeted at the offending connection only; room state is
	// untouched and the dispatcher keeps serving.
	if err != nil {
		c.logger.Warn("event rejected",
			"conn_id", c.ID,
			"room_id", c.RoomID,
			"event", env.Type,
			"error", err.Error())
		c.hub.sendToConn(c.ID, errorEvent(err))
	}
}

func (c *Client) handleJoin(raw json.RawMessage) error {
	var p JoinPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return usecase_session.ErrInvalidUsername
	}
	return c.uc.Join(c.RoomID, c.ID, p.Username, p.IsAdmin)
}

func (c *Client) handleSubmitVote(raw json.RawMessage) error {
	var p VotePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		if errors.Is(err, model.ErrVoteOutOfRange) {
			return usecase_session.ErrInvalidVote
		}
		return err
	}
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.Vote == nil {
		return usecase_session.ErrInvalidVote
	}
	return c.uc.SubmitVote(c.RoomID, c.ID, *p.Vote)
}

func (c *Client) handleLeave(raw json.RawMessage) error {
	var p LeavePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return usecase_session.ErrInvalidUsername
	}
	return c.uc.Leave(c.RoomID, c.ID, p.Username)
}

func (c *Client) handleRoomEvent(raw json.RawMessage, op func() error) error {
	var p RoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	return op()
}
