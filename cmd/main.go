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
	_ "github.com/lib/pq"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/config"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/db"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/handlers"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
	api "github.com/allanbakerhussmann-crypto/pickleball-app-sub013/routes"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/services"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Snapshot publishing is optional; without R2 settings the generation
	// commit simply skips the upload.
	var publisher storage.SnapshotPublisher
	if cfg.R2Configured() {
		uploader, err := storage.NewR2Uploader(storage.R2Config{
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
		publisher = storage.NewSnapshotPublisher(uploader)
		logger.Info("Cloudflare R2 snapshot publisher initialized")
	} else {
		logger.Info("R2 not configured, snapshot publishing disabled")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	divisionRepo := repositories.NewPostgresDivisionRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	divisionService := services.NewDivisionService(dbConn, divisionRepo, participantRepo, matchRepo, logger)
	generationService := services.NewGenerationService(
		dbConn,
		divisionRepo,
		participantRepo,
		matchRepo,
		wsHub,
		publisher,
		logger,
		cfg.GenerationLockTimeout,
	)
	standingsService := services.NewStandingsService(divisionRepo, matchRepo)
	scheduleService := services.NewScheduleService(dbConn, divisionRepo, participantRepo, matchRepo, wsHub, logger)
	resultService := services.NewResultService(dbConn, matchRepo, wsHub, logger)
	logger.Info("services initialized")

	jwtSecret := []byte(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, jwtSecret)
	divisionHandler := handlers.NewDivisionHandler(divisionService, generationService, standingsService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	matchHandler := handlers.NewMatchHandler(resultService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		divisionHandler,
		scheduleHandler,
		matchHandler,
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
