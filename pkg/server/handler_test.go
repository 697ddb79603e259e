package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/pkg/clock"
	"github.com/tecu23/chess-server/pkg/events"
	"github.com/tecu23/chess-server/pkg/game"
	"github.com/tecu23/chess-server/pkg/messages"
)

type handlerFixture struct {
	coordinator *game.Coordinator
	hub         *Hub
	handler     *Handler
	gameID      uuid.UUID

	white *Connection
	black *Connection
}

func newHandlerFixture(t *testing.T, tc *game.TimeControl) *handlerFixture {
	t.Helper()
	logger := zap.NewNop()
	publisher := events.NewPublisher()

	coordinator := game.NewCoordinator(
		game.NewStore(logger), clock.NewEngine(logger), publisher, logger)
	t.Cleanup(coordinator.Shutdown)

	hub := NewHub(publisher, logger)
	t.Cleanup(hub.Shutdown)
	handler := NewHandler(coordinator, hub, logger)

	white := game.Player{ID: "white-id", Username: "alice", Rating: 1500}
	black := game.Player{ID: "black-id", Username: "bob", Rating: 1400}
	snap, err := coordinator.Create(white, &black, tc)
	require.NoError(t, err)
	gameID, err := uuid.Parse(snap.ID)
	require.NoError(t, err)

	f := &handlerFixture{
		coordinator: coordinator,
		hub:         hub,
		handler:     handler,
		gameID:      gameID,
		white:       NewConnection(nil, hub, handler, gameID, "white-id", logger),
		black:       NewConnection(nil, hub, handler, gameID, "black-id", logger),
	}
	hub.Register(f.white)
	hub.Register(f.black)
	return f
}

func next(t *testing.T, c *Connection) messages.Outbound {
	t.Helper()
	select {
	case data := <-c.send:
		var msg messages.Outbound
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("expected a queued message")
		return messages.Outbound{}
	}
}

func decodeData(t *testing.T, msg messages.Outbound, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func moveMsg(t *testing.T, from, to string) messages.Inbound {
	t.Helper()
	data, err := json.Marshal(messages.MoveData{From: from, To: to})
	require.NoError(t, err)
	return messages.Inbound{Event: messages.EventMove, Data: data}
}

func TestHandleConnectSendsStateAndPresence(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.HandleConnect(f.white)

	state := next(t, f.white)
	assert.Equal(t, messages.EventGameState, state.Event)

	var payload messages.GameStateData
	decodeData(t, state, &payload)
	assert.Equal(t, "active", string(payload.Game.Status))
	assert.Len(t, payload.LegalMoves, 20)
	assert.Nil(t, payload.Clock)

	// The other client hears about the arrival; the newcomer does not.
	joined := next(t, f.black)
	assert.Equal(t, messages.EventPlayerJoined, joined.Event)
	assert.Empty(t, f.white.send)
}

func TestHandleConnectIncludesClock(t *testing.T) {
	f := newHandlerFixture(t, &game.TimeControl{InitialTime: 300, Increment: 2})

	f.handler.HandleConnect(f.white)

	var payload messages.GameStateData
	decodeData(t, next(t, f.white), &payload)
	require.NotNil(t, payload.Clock)
	assert.Equal(t, "white", payload.Clock.ActivePlayer)
	assert.InDelta(t, 300.0, payload.Clock.WhiteTime, 1.0)
}

func TestHandleMoveBroadcasts(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.white, moveMsg(t, "e2", "e4"))

	for _, c := range []*Connection{f.white, f.black} {
		msg := next(t, c)
		assert.Equal(t, messages.EventMoveMade, msg.Event)

		var payload messages.MoveMadeData
		decodeData(t, msg, &payload)
		assert.Equal(t, "e2", payload.Move.From)
		assert.Equal(t, "e4", payload.Move.SAN)
		assert.Equal(t, "black", payload.CurrentTurn)
		assert.Equal(t, 1, payload.MoveNumber)
	}
}

func TestHandleMoveOutOfTurn(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.black, moveMsg(t, "e7", "e5"))

	msg := next(t, f.black)
	assert.Equal(t, messages.EventMoveError, msg.Event)

	var payload messages.ErrorData
	decodeData(t, msg, &payload)
	assert.Equal(t, "not your turn", payload.Message)

	// Errors go to the requester only.
	assert.Empty(t, f.white.send)
}

func TestHandleMoveFromSpectator(t *testing.T) {
	f := newHandlerFixture(t, nil)

	spectator := NewConnection(nil, f.hub, f.handler, f.gameID, "watcher", zap.NewNop())
	f.hub.Register(spectator)

	f.handler.Handle(spectator, moveMsg(t, "e2", "e4"))

	msg := next(t, spectator)
	assert.Equal(t, messages.EventMoveError, msg.Event)
	assert.Empty(t, f.white.send)
}

func TestHandleIllegalMove(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.white, moveMsg(t, "e2", "e6"))

	msg := next(t, f.white)
	assert.Equal(t, messages.EventMoveError, msg.Event)

	var payload messages.ErrorData
	decodeData(t, msg, &payload)
	assert.Contains(t, payload.Message, "illegal move")
}

func TestHandleMoveMissingSquares(t *testing.T) {
	f := newHandlerFixture(t, nil)

	data, err := json.Marshal(messages.MoveData{From: "e2"})
	require.NoError(t, err)
	f.handler.Handle(f.white, messages.Inbound{Event: messages.EventMove, Data: data})

	msg := next(t, f.white)
	assert.Equal(t, messages.EventMoveError, msg.Event)
}

func TestHandleUndoRedo(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.white, moveMsg(t, "e2", "e4"))
	next(t, f.white)
	next(t, f.black)

	f.handler.Handle(f.black, messages.Inbound{Event: messages.EventUndo})

	undone := next(t, f.white)
	assert.Equal(t, messages.EventMoveUndone, undone.Event)
	var delta messages.StateDelta
	decodeData(t, undone, &delta)
	assert.Equal(t, "white", delta.CurrentTurn)
	assert.Equal(t, 0, delta.MoveNumber)
	next(t, f.black)

	f.handler.Handle(f.white, messages.Inbound{Event: messages.EventRedo})

	redone := next(t, f.white)
	assert.Equal(t, messages.EventMoveRedone, redone.Event)
	decodeData(t, redone, &delta)
	assert.Equal(t, "black", delta.CurrentTurn)
	assert.Equal(t, 1, delta.MoveNumber)
}

func TestHandleUndoEmptyLedger(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.white, messages.Inbound{Event: messages.EventUndo})

	msg := next(t, f.white)
	assert.Equal(t, messages.EventUndoError, msg.Event)
	assert.Empty(t, f.black.send)
}

func TestHandleUnknownEvent(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.handler.Handle(f.white, messages.Inbound{Event: "teleport"})

	msg := next(t, f.white)
	assert.Equal(t, messages.EventError, msg.Event)
}

func TestCheckmateBroadcastsGameOver(t *testing.T) {
	f := newHandlerFixture(t, nil)

	moves := []struct {
		conn     *Connection
		from, to string
	}{
		{f.white, "f2", "f3"},
		{f.black, "e7", "e5"},
		{f.white, "g2", "g4"},
		{f.black, "d8", "h4"},
	}
	for _, m := range moves {
		f.handler.Handle(m.conn, moveMsg(t, m.from, m.to))
		next(t, f.white)
		next(t, f.black)
	}

	over := next(t, f.white)
	assert.Equal(t, messages.EventGameOver, over.Event)

	var payload messages.GameOverData
	decodeData(t, over, &payload)
	assert.Equal(t, "black_wins", payload.Result)
	assert.Equal(t, messages.EventGameOver, next(t, f.black).Event)
}

func TestHandleDisconnectAnnouncesDeparture(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.hub.Unregister(f.black)
	f.handler.HandleDisconnect(f.black)

	msg := next(t, f.white)
	assert.Equal(t, messages.EventPlayerLeft, msg.Event)

	var payload messages.PresenceData
	decodeData(t, msg, &payload)
	assert.Equal(t, "black-id", payload.PlayerID)
	assert.Equal(t, []string{"white-id"}, payload.ConnectedPlayers)
}
