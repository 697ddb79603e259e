package main

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", app.handleHealth)
	mux.HandleFunc("GET /ws/game/{id}", app.handleWebSocket)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	mux.HandleFunc("POST /api/v1/game", app.handleCreateGame)
	mux.HandleFunc("GET /api/v1/games", app.handleListGames)
	mux.HandleFunc("GET /api/v1/game/{id}", app.handleGetGame)
	mux.HandleFunc("DELETE /api/v1/game/{id}", app.handleDeleteGame)
	mux.HandleFunc("POST /api/v1/game/{id}/move", app.handleMove)
	mux.HandleFunc("POST /api/v1/game/{id}/undo", app.handleUndo)
	mux.HandleFunc("POST /api/v1/game/{id}/redo", app.handleRedo)
	mux.HandleFunc("POST /api/v1/game/{id}/join", app.handleJoin)
	mux.HandleFunc("GET /api/v1/game/{id}/pgn", app.handlePGN)
	mux.HandleFunc("GET /api/v1/game/{id}/clock", app.handleGetClock)
	mux.HandleFunc("POST /api/v1/game/{id}/clock/pause", app.handlePauseClock)
	mux.HandleFunc("POST /api/v1/game/{id}/clock/resume", app.handleResumeClock)

	return app.authenticate(mux)
}
