package messages

import (
	"time"

	"github.com/tecu23/chess-server/pkg/game"
)

// Outbound is how we wrap responses before sending them to the client.
type Outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Server event names.
const (
	EventGameState    = "game_state"
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventMoveMade     = "move_made"
	EventMoveUndone   = "move_undone"
	EventMoveRedone   = "move_redone"
	EventMoveError    = "move_error"
	EventUndoError    = "undo_error"
	EventRedoError    = "redo_error"
	EventClockUpdate  = "clock_update"
	EventTimeUp       = "time_up"
	EventGameOver     = "game_over"
	EventError        = "error"
)

// ClockData is the clock portion of a state snapshot.
type ClockData struct {
	WhiteTime    float64 `json:"white_time"`
	BlackTime    float64 `json:"black_time"`
	ActivePlayer string  `json:"active_player,omitempty"`
}

// GameStateData is the full snapshot sent on connect and get_state.
type GameStateData struct {
	game.StateInfo
	Clock *ClockData `json:"clock"`
}

// PresenceData announces a player joining or leaving the connection set.
type PresenceData struct {
	PlayerID         string   `json:"player_id"`
	ConnectedPlayers []string `json:"connected_players"`
}

// MoveInfo describes the move inside a move_made event.
type MoveInfo struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	SAN       string `json:"san"`
}

// StateDelta carries the post-operation game state shared by move_made,
// move_undone and move_redone.
type StateDelta struct {
	FEN         string `json:"fen"`
	CurrentTurn string `json:"current_turn"`
	MoveNumber  int    `json:"move_number"`
	Status      string `json:"status"`
	Result      string `json:"result"`
}

// MoveMadeData is the payload broadcast after a successful move.
type MoveMadeData struct {
	Move MoveInfo `json:"move"`
	StateDelta
}

// ErrorData carries a rejection message, delivered to the requester only.
type ErrorData struct {
	Message string `json:"message"`
}

// ClockUpdateData is broadcast on periodic clock ticks.
type ClockUpdateData struct {
	WhiteTime    float64 `json:"white_time"`
	BlackTime    float64 `json:"black_time"`
	ActivePlayer string  `json:"active_player"`
}

// TimeUpData announces an expired clock and the resulting outcome.
type TimeUpData struct {
	Player    string    `json:"player"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// GameOverData announces the final result.
type GameOverData struct {
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}
