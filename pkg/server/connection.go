package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/pkg/messages"
)

// Connection is one client's duplex channel into a game. Outbound messages
// go through a buffered send channel drained by WritePump, so a slow client
// never blocks the sender.
type Connection struct {
	ID       uuid.UUID
	GameID   uuid.UUID
	ClientID string // player or spectator identity

	ws      *websocket.Conn
	hub     *Hub
	handler *Handler
	send    chan []byte

	mu     sync.Mutex // guards closed; Send may race Close
	closed bool
	logger *zap.Logger
}

// NewConnection wraps an upgraded websocket for one (game, client) pair.
func NewConnection(
	ws *websocket.Conn,
	hub *Hub,
	handler *Handler,
	gameID uuid.UUID,
	clientID string,
	logger *zap.Logger,
) *Connection {
	return &Connection{
		ID:       uuid.New(),
		GameID:   gameID,
		ClientID: clientID,
		ws:       ws,
		hub:      hub,
		handler:  handler,
		send:     make(chan []byte, 256),
		logger:   logger,
	}
}

// ReadPump handles inbound messages from the client. Each connection's
// messages are processed on its own goroutine; cross-session work never
// funnels through a shared loop.
func (c *Connection) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.handler.HandleDisconnect(c)
		c.ws.Close()
	}()

	for {
		msgType, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", zap.Error(err))
			}
			return
		}

		// We only handle text
		if msgType != websocket.TextMessage {
			continue
		}

		var inbound messages.Inbound
		if err := json.Unmarshal(msg, &inbound); err != nil {
			c.logger.Error("failed to parse inbound JSON", zap.Error(err))
			continue
		}

		c.handler.Handle(c, inbound)
	}
}

// WritePump handles outbound messages to the client.
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			c.logger.Warn("write error",
				zap.String("client_id", c.ClientID),
				zap.Error(err))
			return
		}
	}
}

// Send enqueues raw bytes, best-effort: a closed connection or a full
// buffer drops the message rather than blocking the caller.
func (c *Connection) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("send buffer full, dropping message",
			zap.String("client_id", c.ClientID),
			zap.String("game_id", c.GameID.String()))
		return false
	}
}

// SendJSON is a helper for sending a protocol message to this connection.
func (c *Connection) SendJSON(msg messages.Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("error marshaling JSON", zap.Error(err))
		return
	}
	c.Send(data)
}

// Close shuts the outbound channel exactly once; WritePump then closes the
// underlying socket, which unblocks ReadPump.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
