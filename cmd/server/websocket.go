package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/pkg/server"
)

func (app *application) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if app.Config.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == app.Config.AllowedOrigin
		},
	}
}

// handleWebSocket upgrades GET /ws/game/{id} and attaches the client to the
// game's connection pool. The game must exist before the upgrade; errors
// after the upgrade travel over the socket instead.
func (app *application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	if _, ok := app.Coordinator.Session(gameID); !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	clientID := r.URL.Query().Get("player_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	upgrader := app.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Error("websocket upgrade failed",
			zap.String("game_id", gameID.String()),
			zap.Error(err))
		return
	}

	conn := server.NewConnection(ws, app.Hub, app.Handler, gameID, clientID, app.Logger)
	app.Hub.Register(conn)

	go conn.WritePump()
	app.Handler.HandleConnect(conn)
	go conn.ReadPump()

	app.Logger.Info("websocket client connected",
		zap.String("game_id", gameID.String()),
		zap.String("client_id", clientID))
}
