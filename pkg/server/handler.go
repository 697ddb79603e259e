package server

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/chess-server/pkg/game"
	"github.com/tecu23/chess-server/pkg/messages"
)

// Handler translates the WebSocket protocol into coordinator operations.
// Every state-changing event follows one pattern: attempt the operation,
// broadcast the outcome to the game on success, send the matching error
// event to the requester only on failure.
type Handler struct {
	coordinator *game.Coordinator
	hub         *Hub
	logger      *zap.Logger
}

// NewHandler creates the protocol handler.
func NewHandler(coordinator *game.Coordinator, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{coordinator: coordinator, hub: hub, logger: logger}
}

// HandleConnect runs after a connection registers: the newcomer gets the
// full state, everyone else learns about the arrival.
func (h *Handler) HandleConnect(c *Connection) {
	h.sendState(c)

	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventPlayerJoined,
		Data: messages.PresenceData{
			PlayerID:         c.ClientID,
			ConnectedPlayers: h.hub.ConnectedClients(c.GameID),
		},
	}, c.ClientID)
}

// HandleDisconnect announces the departure to the remaining clients.
func (h *Handler) HandleDisconnect(c *Connection) {
	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventPlayerLeft,
		Data: messages.PresenceData{
			PlayerID:         c.ClientID,
			ConnectedPlayers: h.hub.ConnectedClients(c.GameID),
		},
	}, "")
}

// Handle dispatches one inbound client message.
func (h *Handler) Handle(c *Connection, msg messages.Inbound) {
	switch msg.Event {
	case messages.EventMove:
		h.handleMove(c, msg.Data)
	case messages.EventUndo:
		h.handleUndo(c)
	case messages.EventRedo:
		h.handleRedo(c)
	case messages.EventGetState:
		h.sendState(c)
	case messages.EventJoin:
		// Already handled at connect time.
	default:
		c.SendJSON(messages.Outbound{
			Event: messages.EventError,
			Data:  messages.ErrorData{Message: fmt.Sprintf("unknown event: %s", msg.Event)},
		})
	}
}

func (h *Handler) handleMove(c *Connection, raw json.RawMessage) {
	var data messages.MoveData
	if err := json.Unmarshal(raw, &data); err != nil {
		h.sendError(c, messages.EventMoveError, "invalid move payload")
		return
	}
	if data.From == "" || data.To == "" {
		h.sendError(c, messages.EventMoveError, "missing from or to square")
		return
	}

	s, ok := h.coordinator.Session(c.GameID)
	if !ok {
		h.sendError(c, messages.EventMoveError, fmt.Sprintf("game %s not found", c.GameID))
		return
	}

	// Only the seat whose turn it is may move; spectators never may.
	if s.PlayerColor(c.ClientID) != s.TurnColor() {
		h.sendError(c, messages.EventMoveError, "not your turn")
		return
	}

	snap, record, err := h.coordinator.Move(c.GameID, data.From, data.To, data.Promotion)
	if err != nil {
		h.sendError(c, messages.EventMoveError, err.Error())
		return
	}

	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventMoveMade,
		Data: messages.MoveMadeData{
			Move: messages.MoveInfo{
				From:      record.From,
				To:        record.To,
				Promotion: record.Promotion,
				SAN:       record.SAN,
			},
			StateDelta: stateDelta(snap),
		},
	}, "")

	h.finishIfOver(c, snap)
}

func (h *Handler) handleUndo(c *Connection) {
	snap, err := h.coordinator.Undo(c.GameID)
	if err != nil {
		h.sendError(c, messages.EventUndoError, err.Error())
		return
	}

	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventMoveUndone,
		Data:  stateDelta(snap),
	}, "")
}

func (h *Handler) handleRedo(c *Connection) {
	snap, err := h.coordinator.Redo(c.GameID)
	if err != nil {
		h.sendError(c, messages.EventRedoError, err.Error())
		return
	}

	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventMoveRedone,
		Data:  stateDelta(snap),
	}, "")

	h.finishIfOver(c, snap)
}

// finishIfOver emits game_over when the operation ended the game.
func (h *Handler) finishIfOver(c *Connection, snap game.Snapshot) {
	if snap.Status != game.StatusFinished {
		return
	}
	h.hub.Broadcast(c.GameID, messages.Outbound{
		Event: messages.EventGameOver,
		Data: messages.GameOverData{
			Result:    string(snap.Result),
			Timestamp: time.Now().UTC(),
		},
	}, "")
}

// sendState sends the full snapshot, clock included, to one client.
func (h *Handler) sendState(c *Connection) {
	state, err := h.coordinator.State(c.GameID)
	if err != nil {
		c.SendJSON(messages.Outbound{
			Event: messages.EventError,
			Data:  messages.ErrorData{Message: err.Error()},
		})
		return
	}

	var clockData *messages.ClockData
	if snap, ok := h.coordinator.ClockState(c.GameID); ok {
		clockData = &messages.ClockData{
			WhiteTime:    snap.White,
			BlackTime:    snap.Black,
			ActivePlayer: string(snap.Active),
		}
	}

	c.SendJSON(messages.Outbound{
		Event: messages.EventGameState,
		Data:  messages.GameStateData{StateInfo: state, Clock: clockData},
	})
}

func (h *Handler) sendError(c *Connection, event, msg string) {
	h.hub.SendTo(c.GameID, c.ClientID, messages.Outbound{
		Event: event,
		Data:  messages.ErrorData{Message: msg},
	})
}

func stateDelta(snap game.Snapshot) messages.StateDelta {
	return messages.StateDelta{
		FEN:         snap.FEN,
		CurrentTurn: string(snap.Turn),
		MoveNumber:  len(snap.Moves),
		Status:      string(snap.Status),
		Result:      string(snap.Result),
	}
}
