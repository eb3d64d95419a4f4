// Seed inserts fixture posts into the configured post store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	post_service "simple-social-service/internal/application/service/post"
	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/infrastructure/config"
	"simple-social-service/internal/infrastructure/logger"
	mqtt_events "simple-social-service/internal/infrastructure/outbound/events/mqtt"
	prometheus_metrics "simple-social-service/internal/infrastructure/outbound/metrics/prometheus"
	image_postgres "simple-social-service/internal/infrastructure/outbound/repository/image/postgres"
	post_postgres "simple-social-service/internal/infrastructure/outbound/repository/post/postgres"
	"simple-social-service/internal/infrastructure/outbound/repository/postgres"
)

func main() {
	var fixturesPath string
	flag.StringVar(&fixturesPath, "fixtures", "seed/posts.yaml", "path to the fixture file")
	flag.Parse()

	cfg := config.MustLoad()
	os.Exit(run(context.Background(), cfg, logger.New(cfg.Env), fixturesPath))
}

// run seeds every fixture and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, log ports.Logger, fixturesPath string) int {
	if cfg.Database.Storage == config.StorageMemory {
		log.Error("Seeding needs a persistent store; set database.storage to postgres")
		return 1
	}

	fixtures, err := loadFixtures(fixturesPath)
	if err != nil {
		log.Error("Failed to load fixtures", slog.String("error", err.Error()))
		return 1
	}

	if err := postgres.RunMigrations(cfg.Database.MigrateDSN(), cfg.Database.MigrationsPath, log); err != nil {
		log.Error("Failed to run migrations", slog.String("error", err.Error()))
		return 1
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		return 1
	}
	defer pool.Close()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	store := postgres.NewPostStore(
		postgres.NewPostgresUOW(pool, log, metrics),
		post_postgres.NewPostRepository(pool, log, metrics),
		image_postgres.NewImageRepository(pool, log, metrics),
		log,
		cfg.Posts.MaxImageBytes,
	)
	svc := post_service.NewPostService(store, mqtt_events.NoopPublisher{}, validator.New(), log, metrics, cfg.Posts.MaxImageBytes)

	seeded := 0
	for _, f := range fixtures {
		dto, err := f.toDTO()
		if err != nil {
			log.Error("Skipping fixture", slog.String("user", f.User), slog.String("error", err.Error()))
			continue
		}
		post, err := svc.CreatePost(ctx, dto)
		if err != nil {
			log.Error("Failed to seed post", slog.String("user", f.User), slog.String("error", err.Error()))
			continue
		}
		seeded++
		log.Info("Seeded post",
			slog.Int64("id", post.ID),
			slog.String("user", post.User),
			slog.String("image_ref", post.ImageRef))
	}
	svc.Wait()

	log.Info("Seeding finished", slog.Int("posts", seeded), slog.Int("fixtures", len(fixtures)))
	if seeded != len(fixtures) {
		return 1
	}
	return 0
}
