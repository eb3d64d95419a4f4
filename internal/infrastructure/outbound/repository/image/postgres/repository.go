package image_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ImageRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewImageRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *ImageRepository {
	return &ImageRepository{db: db, log: log, metrics: metrics}
}

// Save stores the blob under its content address and returns the stored record. When
// the bytes are already stored the existing content type and size win.
func (r *ImageRepository) Save(ctx context.Context, image *model.Image) (*model.Image, error) {
	start := time.Now()

	args := pgx.NamedArgs{
		"ref":          image.Ref,
		"content_type": image.ContentType,
		"size":         image.Size,
		"data":         image.Data,
		"created_at":   pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `
		INSERT INTO images (ref, content_type, size, data, created_at)
		VALUES (@ref, @content_type, @size, @data, @created_at)
		ON CONFLICT (ref) DO UPDATE SET ref = images.ref
		RETURNING ref, content_type, size`

	stored := &model.Image{Data: image.Data}
	err := r.db.QueryRow(ctx, query, args).Scan(&stored.Ref, &stored.ContentType, &stored.Size)
	if err != nil {
		r.metrics.IncrementDatabaseQueries("image_save", false)
		r.metrics.RecordDatabaseQueryDuration("image_save", time.Since(start))
		r.log.Error("Error saving image", slog.String("ref", image.Ref), slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("image_save", err)
	}

	r.metrics.IncrementDatabaseQueries("image_save", true)
	r.metrics.RecordDatabaseQueryDuration("image_save", time.Since(start))
	r.log.Debug("Image stored", slog.String("ref", stored.Ref), slog.String("content_type", stored.ContentType))
	return stored, nil
}

func (r *ImageRepository) GetByRef(ctx context.Context, ref string) (*model.Image, error) {
	start := time.Now()

	query := `SELECT ref, content_type, size, data FROM images WHERE ref = @ref`
	image := &model.Image{}
	err := r.db.QueryRow(ctx, query, pgx.NamedArgs{"ref": ref}).Scan(
		&image.Ref,
		&image.ContentType,
		&image.Size,
		&image.Data,
	)
	if err != nil {
		r.metrics.IncrementDatabaseQueries("image_get", false)
		r.metrics.RecordDatabaseQueryDuration("image_get", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("Image not found", slog.String("ref", ref))
			return nil, domain_errors.ErrImageNotFound
		}
		r.log.Error("Error getting image", slog.String("ref", ref), slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("image_get", err)
	}

	r.metrics.IncrementDatabaseQueries("image_get", true)
	r.metrics.RecordDatabaseQueryDuration("image_get", time.Since(start))
	return image, nil
}
