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

	"github.com/opencourt/tennis-tour/brackets"
	"github.com/opencourt/tennis-tour/config"
	"github.com/opencourt/tennis-tour/db"
	"github.com/opencourt/tennis-tour/handlers"
	"github.com/opencourt/tennis-tour/live"
	"github.com/opencourt/tennis-tour/middleware"
	"github.com/opencourt/tennis-tour/repositories"
	api "github.com/opencourt/tennis-tour/routes"
	"github.com/opencourt/tennis-tour/services"
	"github.com/opencourt/tennis-tour/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.PicturesEnabled() {
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
		logger.Info("player pictures disabled, R2 storage not configured")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	hub := live.NewHub(logger)
	go hub.Run(workerCtx)
	logger.Info("live hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	calendarRepo := repositories.NewPostgresCalendarRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	authService := services.NewAuthService(cfg.MasterLogin, cfg.MasterPasswordHash, []byte(cfg.JWTSecretKey), cfg.JWTValidity)
	playerService := services.NewPlayerService(playerRepo, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo)
	calendarService := services.NewCalendarService(
		dbConn,
		calendarRepo,
		tournamentRepo,
		matchRepo,
		playerService,
		brackets.StandardRoundTable,
		hub,
		logger,
	)
	advancementService := services.NewAdvancementService(
		calendarRepo,
		tournamentRepo,
		matchRepo,
		brackets.StandardRoundTable,
		hub,
		logger,
	)
	matchService := services.NewMatchService(matchRepo, advancementService, hub, logger)

	go matchService.RunAdvancements(workerCtx)
	logger.Info("advancement worker started")

	authHandler := handlers.NewAuthHandler(authService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, calendarService, logger)

	authenticator := middleware.NewAuthenticator([]byte(cfg.JWTSecretKey))
	rateLimiter := middleware.NewRateLimiter(20, 40)
	defer rateLimiter.Close()

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		playerHandler,
		tournamentHandler,
		calendarHandler,
		matchHandler,
		webSocketHandler,
		authenticator,
		rateLimiter,
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
		stopWorkers()
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
