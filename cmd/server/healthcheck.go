package main

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	ActiveGames  int    `json:"active_games"`
	ActiveClocks int    `json:"active_clocks"`
}

// handleHealth reports process liveness and a few cheap counters.
//
//	@Summary  Health check
//	@Tags     system
//	@Produce  json
//	@Success  200 {object} HealthResponse
//	@Router   /health [get]
func (app *application) handleHealth(w http.ResponseWriter, _ *http.Request) {
	app.writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Uptime:       time.Since(app.StartTime).Round(time.Second).String(),
		ActiveGames:  app.Coordinator.SessionCount(),
		ActiveClocks: app.Coordinator.ClockCount(),
	})
}
