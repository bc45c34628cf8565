package ws_session

import (
	"log/slog"
	"sync"

	"github.com/pulsecheck/core/internal/model"
)

// Hub routes outbound events to the connections joined to each room. It
// implements the coordinator's Notifier: delivery is per-recipient
// fire-and-forget, so a slow connection is dropped instead of stalling the
// room.
type Hub struct {
	mu    sync.RWMutex
	conns map[model.ConnID]*Client
	rooms map[model.RoomID]map[model.ConnID]*Client

	logger *slog.Logger
}

type HubOption func(*Hub)

func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		conns:  make(map[model.ConnID]*Client),
		rooms:  make(map[model.RoomID]map[model.ConnID]*Client),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[client.ID] = client
	if _, ok := h.rooms[client.RoomID]; !ok {
		h.rooms[client.RoomID] = make(map[model.ConnID]*Client)
	}
	h.rooms[client.RoomID][client.ID] = client

	h.logger.Info("client registered",
		"conn_id", client.ID,
		"room_id", client.RoomID)
}

// Unregister is idempotent: the disconnect path and a forced room closure
// can both race to it.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client.ID]; !ok {
		return
	}
	h.dropLocked(client)

	h.logger.Info("client unregistered",
		"conn_id", client.ID,
		"room_id", client.RoomID)
}

func (h *Hub) dropLocked(client *Client) {
	delete(h.conns, client.ID)
	if roomClients, ok := h.rooms[client.RoomID]; ok {
		delete(roomClients, client.ID)
		if len(roomClients) == 0 {
			delete(h.rooms, client.RoomID)
		}
	}
	client.closeSend()
}

func (h *Hub) broadcastToRoom(roomID model.RoomID, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.rooms[roomID] {
		if !client.trySend(event) {
			// Send buffer full: the connection is dead or hopelessly
			// behind. Drop it rather than block the room.
			h.logger.Warn("dropping slow client",
				"conn_id", client.ID,
				"room_id", roomID)
			h.dropLocked(client)
		}
	}
}

func (h *Hub) sendToConn(connID model.ConnID, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.conns[connID]
	if !ok {
		return
	}
	if !client.trySend(event) {
		h.dropLocked(client)
	}
}

// Notifier implementation.

func (h *Hub) ParticipantsUpdated(roomID model.RoomID, roster []model.ParticipantView) {
	h.broadcastToRoom(roomID, Event{Type: EventParticipantsUpdated, Payload: roster})
}

func (h *Hub) VotingStarted(roomID model.RoomID) {
	h.broadcastToRoom(roomID, Event{Type: EventVotingStarted})
}

func (h *Hub) VotingStartedFor(connID model.ConnID) {
	h.sendToConn(connID, Event{Type: EventVotingStarted})
}

func (h *Hub) VotingEnded(roomID model.RoomID, tally model.Tally) {
	h.broadcastToRoom(roomID, Event{Type: EventVotingEnded, Payload: tally})
}

func (h *Hub) VotingEndedFor(connID model.ConnID, tally model.Tally) {
	h.sendToConn(connID, Event{Type: EventVotingEnded, Payload: tally})
}

func (h *Hub) SessionReset(roomID model.RoomID) {
	h.broadcastToRoom(roomID, Event{Type: EventSessionReset})
}

// SessionClosed delivers the closure notice to every connection still in the
// room and then disconnects them all: their send channels close, the write
// pumps drain and tear the transports down.
func (h *Hub) SessionClosed(roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.rooms[roomID] {
		client.trySend(Event{Type: EventSessionClosed})
		delete(h.conns, client.ID)
		client.closeSend()
	}
	delete(h.rooms, roomID)

	h.logger.Info("room connections closed", "room_id", roomID)
}
