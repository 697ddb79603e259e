// Package main is the entry point of the application
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/tecu23/chess-server/docs"
	"github.com/tecu23/chess-server/internal/auth"
	"github.com/tecu23/chess-server/pkg/clock"
	"github.com/tecu23/chess-server/pkg/config"
	"github.com/tecu23/chess-server/pkg/events"
	"github.com/tecu23/chess-server/pkg/game"
	"github.com/tecu23/chess-server/pkg/server"
)

// application encapsulates global dependencies
type application struct {
	Auth        *auth.APIKeyAuth
	Logger      *zap.Logger
	Config      *config.Config
	Publisher   *events.Publisher
	Coordinator *game.Coordinator
	Hub         *server.Hub
	Handler     *server.Handler
	Server      *http.Server

	StartTime time.Time

	stopCoordinator context.CancelFunc
}

// @title        Chess Server API
// @version      1.0
// @description  A real-time multiplayer chess server with WebSocket support.
// @BasePath     /api/v1
func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.String("port", "8080", "server port")
	flag.Parse()

	cfg := &config.Config{
		Debug: *debug,
		Port:  *port,
	}

	// Initialize logger
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}
	cfg.Load()

	// Initialize event publisher
	publisher := events.NewPublisher()

	// Initialize game core
	store := game.NewStore(logger)
	clocks := clock.NewEngine(logger)
	coordinator := game.NewCoordinator(store, clocks, publisher, logger)

	// Initialize delivery layer
	hub := server.NewHub(publisher, logger)
	handler := server.NewHandler(coordinator, hub, logger)

	ctx, cancel := context.WithCancel(context.Background())

	app := &application{
		Auth:            auth.NewAPIKeyAuth(cfg.APIKeys),
		Logger:          logger,
		Config:          cfg,
		Publisher:       publisher,
		Coordinator:     coordinator,
		Hub:             hub,
		Handler:         handler,
		StartTime:       time.Now(),
		stopCoordinator: cancel,
	}

	go coordinator.Run(ctx)

	if err := app.serve(); err != nil {
		logger.Fatal("error serving", zap.Error(err))
	}
}

func initLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}

// Shutdown cleans up resources: the clock event pump stops first, then the
// delivery layer, then every running countdown.
func (app *application) Shutdown() {
	app.stopCoordinator()

	if app.Hub != nil {
		app.Hub.Shutdown()
	}
	if app.Coordinator != nil {
		app.Coordinator.Shutdown()
	}

	app.Logger.Info("All components shut down successfully")
}
