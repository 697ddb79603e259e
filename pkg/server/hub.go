// Package server is the delivery layer: it tracks which clients are
// connected to which game and fans server events out to them.
package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/pkg/events"
	"github.com/tecu23/chess-server/pkg/messages"
)

// Hub is the per-game connection registry. It holds no game state: entries
// are delivery targets only, and losing one loses nothing but reachability.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[string]*Connection

	logger *zap.Logger
}

// NewHub creates the hub and subscribes it to the clock-driven events the
// coordinator publishes, so those broadcasts happen off the game-state lock.
func NewHub(publisher *events.Publisher, logger *zap.Logger) *Hub {
	h := &Hub{
		sessions: make(map[uuid.UUID]map[string]*Connection),
		logger:   logger,
	}

	publisher.Subscribe(events.EventClockUpdated, func(ev events.Event) {
		gameID, err := uuid.Parse(ev.GameID)
		if err != nil {
			return
		}
		payload, ok := ev.Payload.(events.ClockUpdatePayload)
		if !ok {
			h.logger.Error("invalid clock update payload type")
			return
		}
		h.Broadcast(gameID, messages.Outbound{
			Event: messages.EventClockUpdate,
			Data: messages.ClockUpdateData{
				WhiteTime:    payload.WhiteTime,
				BlackTime:    payload.BlackTime,
				ActivePlayer: payload.ActivePlayer,
			},
		}, "")
	})

	publisher.Subscribe(events.EventTimeUp, func(ev events.Event) {
		gameID, err := uuid.Parse(ev.GameID)
		if err != nil {
			return
		}
		payload, ok := ev.Payload.(events.TimeUpPayload)
		if !ok {
			h.logger.Error("invalid time up payload type")
			return
		}
		now := time.Now().UTC()
		// Both events from one handler keeps their order stable per client.
		h.Broadcast(gameID, messages.Outbound{
			Event: messages.EventTimeUp,
			Data: messages.TimeUpData{
				Player:    payload.Player,
				Result:    payload.Result,
				Timestamp: now,
			},
		}, "")
		h.Broadcast(gameID, messages.Outbound{
			Event: messages.EventGameOver,
			Data:  messages.GameOverData{Result: payload.Result, Timestamp: now},
		}, "")
	})

	publisher.Subscribe(events.EventSessionTerminated, func(ev events.Event) {
		if gameID, err := uuid.Parse(ev.GameID); err == nil {
			h.CloseGame(gameID)
		}
	})

	return h
}

// Register adds a connection, superseding any prior connection for the same
// (game, client) pair.
func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	conns, ok := h.sessions[c.GameID]
	if !ok {
		conns = make(map[string]*Connection)
		h.sessions[c.GameID] = conns
	}
	prior := conns[c.ClientID]
	conns[c.ClientID] = c
	h.mu.Unlock()

	if prior != nil {
		prior.Close()
	}

	h.logger.Info("connection registered",
		zap.String("game_id", c.GameID.String()),
		zap.String("client_id", c.ClientID))
}

// Unregister removes the entry owning this connection. A superseded
// connection does not evict its replacement.
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	if conns, ok := h.sessions[c.GameID]; ok {
		if conns[c.ClientID] == c {
			delete(conns, c.ClientID)
			if len(conns) == 0 {
				delete(h.sessions, c.GameID)
			}
		}
	}
	h.mu.Unlock()

	c.Close()

	h.logger.Info("connection unregistered",
		zap.String("game_id", c.GameID.String()),
		zap.String("client_id", c.ClientID))
}

// SendTo delivers to exactly one client. A missing connection is a silent
// no-op: the client may have disconnected mid-delivery.
func (h *Hub) SendTo(gameID uuid.UUID, clientID string, msg messages.Outbound) {
	h.mu.RLock()
	var c *Connection
	if conns, ok := h.sessions[gameID]; ok {
		c = conns[clientID]
	}
	h.mu.RUnlock()

	if c != nil {
		c.SendJSON(msg)
	}
}

// Broadcast delivers to every connection of the game except the excluded
// client id. Delivery is best effort; one slow or dead client never blocks
// the rest.
func (h *Hub) Broadcast(gameID uuid.UUID, msg messages.Outbound, exclude string) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("error marshaling broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.sessions[gameID]))
	for clientID, c := range h.sessions[gameID] {
		if exclude != "" && clientID == exclude {
			continue
		}
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Send(data)
	}
}

// ConnectedClients lists the client ids currently connected to the game.
func (h *Hub) ConnectedClients(gameID uuid.UUID) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.sessions[gameID]))
	for clientID := range h.sessions[gameID] {
		ids = append(ids, clientID)
	}
	return ids
}

// CloseGame drops every connection of a deleted game.
func (h *Hub) CloseGame(gameID uuid.UUID) {
	h.mu.Lock()
	conns := h.sessions[gameID]
	delete(h.sessions, gameID)
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// Shutdown drops every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[uuid.UUID]map[string]*Connection)
	h.mu.Unlock()

	for _, conns := range all {
		for _, c := range conns {
			c.Close()
		}
	}
}
