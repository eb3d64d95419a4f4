package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	post_service "simple-social-service/internal/application/service/post"
	input_post "simple-social-service/internal/domain/ports/input/post"
	"simple-social-service/internal/domain/ports/output/events"
	post_repository "simple-social-service/internal/domain/ports/output/post"
	"simple-social-service/internal/infrastructure/config"
	delivery_grpc "simple-social-service/internal/infrastructure/inbound/grpc"
	http_server "simple-social-service/internal/infrastructure/inbound/http"
	post_http "simple-social-service/internal/infrastructure/inbound/http/post"
	metrics_server "simple-social-service/internal/infrastructure/inbound/metrics"
	"simple-social-service/internal/infrastructure/logger"
	redis_cache "simple-social-service/internal/infrastructure/outbound/cache/redis"
	mqtt_events "simple-social-service/internal/infrastructure/outbound/events/mqtt"
	prometheus_metrics "simple-social-service/internal/infrastructure/outbound/metrics/prometheus"
	image_postgres "simple-social-service/internal/infrastructure/outbound/repository/image/postgres"
	post_memory "simple-social-service/internal/infrastructure/outbound/repository/post/memory"
	post_postgres "simple-social-service/internal/infrastructure/outbound/repository/post/postgres"
	"simple-social-service/internal/infrastructure/outbound/repository/postgres"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	var postRepo post_repository.Repository
	switch cfg.Database.Storage {
	case config.StorageMemory:
		log.Warn("Using in-memory post store; posts are lost on restart")
		postRepo = post_memory.NewPostRepository(log, metrics, cfg.Posts.MaxImageBytes)
	default:
		if err := postgres.RunMigrations(cfg.Database.MigrateDSN(), cfg.Database.MigrationsPath, log); err != nil {
			log.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		unitOfWork := postgres.NewPostgresUOW(pool, log, metrics)
		postRepo = postgres.NewPostStore(
			unitOfWork,
			post_postgres.NewPostRepository(pool, log, metrics),
			image_postgres.NewImageRepository(pool, log, metrics),
			log,
			cfg.Posts.MaxImageBytes,
		)
	}

	var publisher events.Publisher = mqtt_events.NoopPublisher{}
	if cfg.Events.Broker != "" {
		mqttPublisher := mqtt_events.New(mqtt_events.Config{
			Broker:      cfg.Events.Broker,
			Username:    cfg.Events.Username,
			Password:    cfg.Events.Password,
			UseTLS:      cfg.Events.UseTLS,
			ClientID:    cfg.Events.ClientID,
			TopicPrefix: cfg.Events.TopicPrefix,
		}, log, metrics)
		if err := mqttPublisher.Connect(); err != nil {
			log.Warn("MQTT broker not reachable yet, events are dropped until it is",
				slog.String("broker", cfg.Events.Broker),
				slog.String("error", err.Error()))
		}
		publisher = mqttPublisher
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	originalPostService := post_service.NewPostService(
		postRepo,
		publisher,
		validator.New(),
		log,
		metrics,
		cfg.Posts.MaxImageBytes,
	)

	var postService input_post.Service = originalPostService
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis",
			slog.String("address", cfg.Redis.Address),
			slog.Int("port", cfg.Redis.Port),
			slog.Int("db", cfg.Redis.DB))
		redisClient, err := redis_cache.NewClient(cfg.Redis, log)
		if err != nil {
			log.Error("Failed to create Redis client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
			}
		}()

		postService = post_service.NewPostServiceCacheDecorator(
			originalPostService,
			redis_cache.NewImageCache(redisClient, log),
			log,
			metrics,
		)
	}

	postHTTPService := post_http.NewPostHTTPService(postService, log, cfg.Posts.MaxImageBytes)
	httpServer := http_server.NewServer(postHTTPService, cfg.HTTPServer.Address, cfg.HTTPServer.Port, cfg.HTTPServer.CORSOrigins, log, metrics)
	grpcServer := delivery_grpc.NewServer(cfg.GRPCServer.Address, cfg.GRPCServer.Port, log, metrics)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	metrics.SetServiceHealth(true)
	grpcServer.SetServing(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	httpDone := make(chan bool, 1)
	grpcDone := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		httpDone <- true
	}()

	go func() {
		if err := grpcServer.Run(); err != nil {
			log.Error("gRPC server error", slog.String("error", err.Error()))
		}
		grpcDone <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)
	grpcServer.SetServing(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := grpcServer.Shutdown(); err != nil {
		log.Error("gRPC server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-httpDone
	<-grpcDone
	<-metricsDone

	originalPostService.Wait()

	log.Info("Server exited")
}
