package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	deliveryHTTP "github.com/vkotov/checkpoint/internal/delivery/http"
	"github.com/vkotov/checkpoint/internal/pkg/config"
	"github.com/vkotov/checkpoint/internal/pkg/database"
	"github.com/vkotov/checkpoint/internal/pkg/jwt"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/pkg/metrics"
	"github.com/vkotov/checkpoint/internal/pkg/redis"
	"github.com/vkotov/checkpoint/internal/repository/cached"
	"github.com/vkotov/checkpoint/internal/repository/postgres"
	"github.com/vkotov/checkpoint/internal/usecase/auth"
	"github.com/vkotov/checkpoint/internal/usecase/crossing"
	"github.com/vkotov/checkpoint/internal/usecase/pass"
	"github.com/vkotov/checkpoint/internal/usecase/sweeper"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting checkpoint API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis
	// =========================================================================

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redisClient.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"address": cfg.Redis.Address(),
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	territoryRepo := postgres.NewTerritoryRepository(db)
	checkpointRepo := cached.NewCheckpointRepository(postgres.NewCheckpointRepository(db), redisClient)
	vehicleRepo := postgres.NewVehicleRepository(db)
	brandRepo := postgres.NewVehicleBrandRepository(db)
	visitorRepo := postgres.NewVisitorRepository(db)
	passRepo := postgres.NewPassRepository(db)
	crossingRepo := postgres.NewCrossingRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Метрики Prometheus
	// =========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, tokenService, log)
	passService := pass.NewService(passRepo, crossingRepo, userRepo, territoryRepo, vehicleRepo, brandRepo, visitorRepo, log)
	crossingService := crossing.NewService(passRepo, crossingRepo, checkpointRepo, log, m)

	log.Info("Use case services initialized")

	// =========================================================================
	// Запуск фоновой сверки пропусков
	// =========================================================================

	sweeperCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()

	if cfg.Sweeper.Enabled {
		sw := sweeper.New(
			passRepo,
			crossingRepo,
			log,
			m,
			cfg.Sweeper.Interval,
			cfg.Sweeper.ActivationLookahead,
		)
		go sw.Run(sweeperCtx)
	} else {
		log.Warn("Sweeper is disabled, pass statuses will not be reconciled")
	}

	// =========================================================================
	// Создание HTTP handlers
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	passHandler := deliveryHTTP.NewPassHandler(passService, log)
	crossingHandler := deliveryHTTP.NewCrossingHandler(crossingService, log)

	log.Info("HTTP handlers initialized")

	// =========================================================================
	// Создание и настройка HTTP router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		authHandler,
		passHandler,
		crossingHandler,
		tokenService,
		metricsHandler,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Останавливаем сверку до остановки сервера, чтобы она не
		// работала поверх закрывающегося пула соединений
		stopSweeper()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
