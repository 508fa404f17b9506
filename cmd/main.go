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

	"github.com/Dosada05/bp-tabulator/cache"
	"github.com/Dosada05/bp-tabulator/config"
	"github.com/Dosada05/bp-tabulator/db"
	"github.com/Dosada05/bp-tabulator/handlers"
	"github.com/Dosada05/bp-tabulator/repositories"
	api "github.com/Dosada05/bp-tabulator/routes"
	"github.com/Dosada05/bp-tabulator/services"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
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

	// Кэш таблицы результатов (Redis опционален)
	standingsCache := cache.NewNoopStandingsCache()
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(pingCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis client", slog.Any("error", err))
			}
		}()
		standingsCache = cache.NewRedisStandingsCache(redisClient, cfg.StandingsCacheTTL)
		logger.Info("standings cache enabled", slog.Duration("ttl", cfg.StandingsCacheTTL))
	} else {
		logger.Info("standings cache disabled: REDIS_URL is not set")
	}

	// Инициализация репозиториев
	transactor := repositories.NewPostgresTransactor(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	debateRepo := repositories.NewPostgresDebateRepository(dbConn)
	roleRepo := repositories.NewPostgresRoleBalanceRepository(dbConn)
	adjudicatorRepo := repositories.NewPostgresAdjudicatorRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	validate := services.NewValidator()
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, debateRepo, validate, logger)
	teamService := services.NewTeamService(tournamentRepo, teamRepo, standingsCache, validate, logger)
	roundService := services.NewRoundService(
		transactor,
		tournamentRepo,
		teamRepo,
		debateRepo,
		roleRepo,
		standingsCache,
		validate,
		logger,
		cfg.PairingSeed,
	)
	resultService := services.NewResultService(transactor, debateRepo, standingsCache, validate, logger)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, debateRepo, roleRepo, standingsCache, logger)
	adjudicatorService := services.NewAdjudicatorService(transactor, tournamentRepo, debateRepo, adjudicatorRepo, validate, logger)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	healthHandler := handlers.NewHealthHandler(dbConn)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	roundHandler := handlers.NewRoundHandler(roundService, resultService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	adjudicatorHandler := handlers.NewAdjudicatorHandler(adjudicatorService)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		logger,
		cfg.CORSAllowedOrigins,
		healthHandler,
		tournamentHandler,
		teamHandler,
		roundHandler,
		standingsHandler,
		adjudicatorHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
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
