// @title        Arenarium API
// @version      1.0
// @description  MLBB esports stats and tournament CMS.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/cache"
	"github.com/Dosada05/arenarium/config"
	"github.com/Dosada05/arenarium/db"
	"github.com/Dosada05/arenarium/handlers"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	api "github.com/Dosada05/arenarium/routes"
	"github.com/Dosada05/arenarium/services"
	"github.com/Dosada05/arenarium/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
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

	if cfg.RunMigrations {
		version, err := db.Migrate(dbConn)
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied", slog.Uint64("version", uint64(version)))
	}
	sqlxConn := db.Wrap(dbConn)

	// Кэш чтения: Redis, если задан REDIS_URL, иначе в памяти процесса
	var readCache cache.Cache
	if cfg.RedisURL != "" {
		readCache, err = cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		if closer, ok := readCache.(io.Closer); ok {
			defer closer.Close()
		}
		logger.Info("redis cache connected")
	} else {
		readCache = cache.NewMemory()
		logger.Info("using in-memory cache")
	}

	// Хранилище картинок; без настроек работают все операции, кроме загрузки
	var uploader storage.FileUploader
	if cfg.Storage.Enabled() {
		uploader, err = storage.NewS3Uploader(storage.S3UploaderConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccountID:       cfg.Storage.AccountID,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			BucketPrefix:    cfg.Storage.BucketPrefix,
		})
		if err != nil {
			logger.Error("failed to initialize storage uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("storage uploader initialized")
	} else {
		uploader = storage.NewDisabledUploader()
		logger.Warn("storage is not configured, image uploads are disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewSqlxPlayerRepository(sqlxConn)
	heroRepo := repositories.NewSqlxHeroRepository(sqlxConn)
	itemRepo := repositories.NewSqlxItemRepository(sqlxConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	tournamentTeamRepo := repositories.NewPostgresTournamentTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	statisticRepo := repositories.NewPostgresStatisticRepository(dbConn)
	staffRepo := repositories.NewPostgresStaffRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	deps := services.Deps{
		Cache:    readCache,
		CacheTTL: cfg.CacheTTL,
		Events:   wsHub,
		Logger:   logger,
	}
	tx := services.NewSQLTransactor(dbConn)

	authService := services.NewAuthService(staffRepo, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, deps)
	playerService := services.NewPlayerService(playerRepo, deps)
	catalogService := services.NewCatalogService(heroRepo, itemRepo, deps)
	tournamentService := services.NewTournamentService(tournamentRepo, stageRepo, tournamentTeamRepo, matchRepo, deps)
	tournamentTeamService := services.NewTournamentTeamService(tournamentRepo, tournamentTeamRepo, deps)
	stageService := services.NewStageService(tx, tournamentRepo, stageRepo, deps)
	bracketService := services.NewBracketService(stageRepo, tournamentTeamRepo, matchRepo, deps)
	matchService := services.NewMatchService(matchRepo, gameRepo, stageRepo, deps)
	statisticsService := services.NewStatisticsService(statisticRepo, teamRepo, matchRepo, deps)
	imageService := services.NewImageService(uploader, teamRepo, playerRepo, heroRepo, tournamentRepo, matchRepo, deps)
	logger.Info("Services initialized")

	if cfg.AdminEmail != "" {
		bootstrapCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := authService.EnsureStaff(bootstrapCtx, cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin)
		cancel()
		if err != nil {
			logger.Error("failed to bootstrap admin user", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("admin user ready", slog.String("email", cfg.AdminEmail))
	}

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:            handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Team:            handlers.NewTeamHandler(teamService, imageService),
		Player:          handlers.NewPlayerHandler(playerService, imageService),
		Catalog:         handlers.NewCatalogHandler(catalogService, imageService),
		Tournament:      handlers.NewTournamentHandler(tournamentService, imageService),
		TournamentTeams: handlers.NewTournamentTeamHandler(tournamentTeamService),
		Stage:           handlers.NewStageHandler(stageService, bracketService),
		Match:           handlers.NewMatchHandler(matchService, imageService),
		Statistics:      handlers.NewStatisticsHandler(statisticsService),
		Image:           handlers.NewImageHandler(imageService),
		WebSocket:       handlers.NewWebSocketHandler(wsHub, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, h)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
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
		} else {
			logger.Info("server shutdown complete")
		}
	}

	// Останавливаем hub: закрывает все websocket-соединения
	stop()
	logger.Info("application exited")
}
