package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nexusarena/tournament-service/config"
	"github.com/nexusarena/tournament-service/db"
	"github.com/nexusarena/tournament-service/handlers"
	"github.com/nexusarena/tournament-service/realtime"
	"github.com/nexusarena/tournament-service/repositories"
	api "github.com/nexusarena/tournament-service/routes"
	"github.com/nexusarena/tournament-service/services"
	"github.com/nexusarena/tournament-service/storage"
)

// @title NexusArena Tournament Service API
// @version 1.0
// @description Tournament lifecycle and registration API for the NexusArena gaming platform.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("open_tournament_management", cfg.OpenTournamentManagement))

	client, err := db.Connect(cfg.MongoURI, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	database := client.Database(cfg.MongoDatabase)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		cancelIndex()
		logger.Error("failed to ensure indexes", slog.Any("error", err))
		os.Exit(1)
	}
	cancelIndex()
	logger.Info("indexes ensured")

	// Banner uploads are optional: without R2 credentials the endpoint
	// reports an error but the rest of the service runs.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 credentials not configured, banner uploads disabled")
	}

	wsHub := realtime.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	tournamentRepo := repositories.NewMongoTournamentRepository(database)
	userRepo := repositories.NewMongoUserRepository(database)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	tournamentService := services.NewTournamentService(tournamentRepo, uploader, wsHub)
	participantService := services.NewParticipantService(tournamentRepo, wsHub, logger)
	dashboardService := services.NewDashboardService(tournamentRepo)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:                []byte(cfg.JWTSecretKey),
			OpenTournamentManagement: cfg.OpenTournamentManagement,
		},
		authHandler,
		tournamentHandler,
		participantHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
