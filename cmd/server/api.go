package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/internal/color"
	"github.com/tecu23/chess-server/pkg/clock"
	"github.com/tecu23/chess-server/pkg/game"
)

// CreateGameRequest is the body of POST /api/v1/game.
type CreateGameRequest struct {
	WhitePlayer game.Player       `json:"white_player"`
	BlackPlayer *game.Player      `json:"black_player,omitempty"`
	TimeControl *game.TimeControl `json:"time_control,omitempty"`
}

// MoveRequest is the body of POST /api/v1/game/{id}/move.
type MoveRequest struct {
	FromSquare string `json:"from_square"`
	ToSquare   string `json:"to_square"`
	Promotion  string `json:"promotion,omitempty"`
}

// GameSummary is one row of the game listing.
type GameSummary struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	WhitePlayer string    `json:"white_player,omitempty"`
	BlackPlayer string    `json:"black_player,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	MoveCount   int       `json:"move_count"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps the game error taxonomy to transport status codes.
func (app *application) writeError(w http.ResponseWriter, err error) {
	var ge *game.Error
	if !errors.As(err, &ge) {
		app.writeJSON(w, http.StatusInternalServerError,
			errorResponse{Error: "an unexpected error occurred"})
		return
	}

	status := http.StatusBadRequest
	switch ge.Kind {
	case game.KindNotFound:
		status = http.StatusNotFound
	case game.KindConflict:
		status = http.StatusConflict
	}

	app.writeJSON(w, status, errorResponse{Error: ge.Message, Code: string(ge.Kind)})
}

func (app *application) gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		app.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "invalid game id", Code: string(game.KindValidation)})
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateGame creates a new game.
//
//	@Summary  Create a new chess game
//	@Tags     games
//	@Accept   json
//	@Produce  json
//	@Param    request body CreateGameRequest true "game parameters"
//	@Success  200 {object} game.Snapshot
//	@Failure  400 {object} errorResponse
//	@Router   /game [post]
func (app *application) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "invalid request body", Code: string(game.KindValidation)})
		return
	}

	snap, err := app.Coordinator.Create(req.WhitePlayer, req.BlackPlayer, req.TimeControl)
	if err != nil {
		app.writeError(w, err)
		return
	}

	app.writeJSON(w, http.StatusOK, snap)
}

// handleGetGame returns the full game state.
//
//	@Summary  Get current game state
//	@Tags     games
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} game.StateInfo
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id} [get]
func (app *application) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	state, err := app.Coordinator.State(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

// handleMove applies a move.
//
//	@Summary  Make a move in the game
//	@Tags     games
//	@Accept   json
//	@Produce  json
//	@Param    id path string true "game id"
//	@Param    request body MoveRequest true "the move"
//	@Success  200 {object} game.StateInfo
//	@Failure  400 {object} errorResponse
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/move [post]
func (app *application) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "invalid request body", Code: string(game.KindValidation)})
		return
	}

	if _, _, err := app.Coordinator.Move(id, req.FromSquare, req.ToSquare, req.Promotion); err != nil {
		app.writeError(w, err)
		return
	}

	state, err := app.Coordinator.State(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

// handleUndo reverts the last move.
//
//	@Summary  Undo the last move
//	@Tags     games
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} game.StateInfo
//	@Failure  400 {object} errorResponse
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/undo [post]
func (app *application) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	if _, err := app.Coordinator.Undo(id); err != nil {
		app.writeError(w, err)
		return
	}

	state, err := app.Coordinator.State(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

// handleRedo re-applies the last undone move.
//
//	@Summary  Redo a previously undone move
//	@Tags     games
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} game.StateInfo
//	@Failure  400 {object} errorResponse
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/redo [post]
func (app *application) handleRedo(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	if _, err := app.Coordinator.Redo(id); err != nil {
		app.writeError(w, err)
		return
	}

	state, err := app.Coordinator.State(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, state)
}

// handleJoin seats the second player.
//
//	@Summary  Join a game as the second player
//	@Tags     games
//	@Accept   json
//	@Produce  json
//	@Param    id path string true "game id"
//	@Param    request body game.Player true "the joining player"
//	@Success  200 {object} game.Snapshot
//	@Failure  404 {object} errorResponse
//	@Failure  409 {object} errorResponse
//	@Router   /game/{id}/join [post]
func (app *application) handleJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	var player game.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		app.writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "invalid request body", Code: string(game.KindValidation)})
		return
	}

	snap, err := app.Coordinator.Join(id, player)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, snap)
}

// handlePGN exports the game record.
//
//	@Summary  Get PGN representation of the game
//	@Tags     games
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} map[string]string
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/pgn [get]
func (app *application) handlePGN(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	pgn, err := app.Coordinator.PGN(id)
	if err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]string{"pgn": pgn})
}

// handleGetClock returns the live clock state.
//
//	@Summary  Get current clock state
//	@Tags     clock
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} map[string]interface{}
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/clock [get]
func (app *application) handleGetClock(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	snap, ok := app.Coordinator.ClockState(id)
	if !ok {
		app.writeJSON(w, http.StatusNotFound,
			errorResponse{Error: "clock not found for this game", Code: string(game.KindNotFound)})
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]interface{}{
		"white_time":           snap.White,
		"black_time":           snap.Black,
		"active_player":        snap.Active,
		"white_time_formatted": clock.FormatClockTime(snap.White),
		"black_time_formatted": clock.FormatClockTime(snap.Black),
	})
}

// handlePauseClock freezes the clock.
//
//	@Summary  Pause the game clock
//	@Tags     clock
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} map[string]string
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/clock/pause [post]
func (app *application) handlePauseClock(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	if err := app.Coordinator.PauseClock(id); err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]string{"message": "clock paused successfully"})
}

// handleResumeClock restarts the countdown for one player.
//
//	@Summary  Resume the game clock for a specific player
//	@Tags     clock
//	@Produce  json
//	@Param    id     path  string true "game id"
//	@Param    player query string true "white or black"
//	@Success  200 {object} map[string]string
//	@Failure  400 {object} errorResponse
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id}/clock/resume [post]
func (app *application) handleResumeClock(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	player := color.Color(r.URL.Query().Get("player"))
	if err := app.Coordinator.ResumeClock(id, player); err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK,
		map[string]string{"message": "clock resumed for " + string(player) + " player"})
}

// handleListGames lists every game.
//
//	@Summary  List all games
//	@Tags     games
//	@Produce  json
//	@Success  200 {object} map[string][]GameSummary
//	@Router   /games [get]
func (app *application) handleListGames(w http.ResponseWriter, _ *http.Request) {
	snaps := app.Coordinator.Sessions()

	summaries := make([]GameSummary, 0, len(snaps))
	for _, s := range snaps {
		summary := GameSummary{
			ID:        s.ID,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
			MoveCount: len(s.Moves),
		}
		if s.White != nil {
			summary.WhitePlayer = s.White.Username
		}
		if s.Black != nil {
			summary.BlackPlayer = s.Black.Username
		}
		summaries = append(summaries, summary)
	}

	app.writeJSON(w, http.StatusOK, map[string][]GameSummary{"games": summaries})
}

// handleDeleteGame tears a game down.
//
//	@Summary  Delete a game and clean up resources
//	@Tags     games
//	@Produce  json
//	@Param    id path string true "game id"
//	@Success  200 {object} map[string]string
//	@Failure  404 {object} errorResponse
//	@Router   /game/{id} [delete]
func (app *application) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := app.gameID(w, r)
	if !ok {
		return
	}

	if err := app.Coordinator.Delete(id); err != nil {
		app.writeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]string{"message": "game deleted successfully"})
}
