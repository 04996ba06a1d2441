package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/api"
	"github.com/isdelr/registrant-portal/internal/api/views"
	"github.com/isdelr/registrant-portal/internal/auth"
	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/config"
	"github.com/isdelr/registrant-portal/internal/database"
	"github.com/isdelr/registrant-portal/internal/logger"
	"github.com/isdelr/registrant-portal/internal/monitoring"
	"github.com/isdelr/registrant-portal/internal/services"
	"github.com/isdelr/registrant-portal/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	sealer, err := auth.NewSealer(cfg.SessionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token sealer")
	}

	renderer, err := views.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Set up the Registrant API client
	apiClient := backend.New(cfg.BackendURL, cfg.RequestTimeout)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	sessionService := services.NewSessionService(db, sealer, cfg.SessionTTL)
	notificationService := services.NewNotificationService(db, hub)
	panelService := services.NewPanelService(apiClient, notificationService)
	formService := services.NewFormService(apiClient, sessionService)

	sessionService.OnEnd(panelService.Unmount)
	sessionService.OnEnd(formService.Drop)
	sessionService.OnEnd(func(sessionID string) {
		hub.SendTo(sessionID, websocket.NewSessionEndedMessage())
	})

	// Set up and run the background session sweeper
	sweeper, err := monitoring.NewSweeper(sessionService, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session sweeper")
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(cfg, db, hub, renderer, sessionService, notificationService, panelService, formService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("backend", cfg.BackendURL).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
