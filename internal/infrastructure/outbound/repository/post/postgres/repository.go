package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/infrastructure/outbound/repository/postgres/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

// appendLockKey identifies the advisory lock serializing post inserts.
const appendLockKey int64 = 0x706f737473

const selectPosts = `
	SELECT p.id, p.user_name, p.text, p.image_ref, i.content_type, i.size, p.created_at
	FROM posts p JOIN images i ON i.ref = p.image_ref`

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

// LockAppends blocks until the caller's transaction holds the append lock. The lock is
// released on commit or rollback.
func (p *PostRepository) LockAppends(ctx context.Context) error {
	start := time.Now()
	if _, err := p.db.Exec(ctx, `SELECT pg_advisory_xact_lock(@key)`, pgx.NamedArgs{"key": appendLockKey}); err != nil {
		p.metrics.IncrementDatabaseQueries("post_lock", false)
		p.metrics.RecordDatabaseQueryDuration("post_lock", time.Since(start))
		p.log.Error("Error acquiring post append lock", slog.String("error", err.Error()))
		return domain_errors.NewStorageError("post_lock", err)
	}
	p.metrics.IncrementDatabaseQueries("post_lock", true)
	p.metrics.RecordDatabaseQueryDuration("post_lock", time.Since(start))
	return nil
}

// Insert appends a post. created_at never goes below the newest stored post, so
// timestamps stay non-decreasing in id order even if the clock steps back.
func (p *PostRepository) Insert(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Inserting post", slog.String("user", post.User), slog.String("image_ref", post.ImageRef))

	args := pgx.NamedArgs{
		"user_name": post.User,
		"text":      post.Text,
		"image_ref": post.ImageRef,
		"now":       pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	query := `
		INSERT INTO posts (user_name, text, image_ref, created_at)
		VALUES (@user_name, @text, @image_ref,
			GREATEST(@now::timestamptz, COALESCE((SELECT MAX(created_at) FROM posts), @now::timestamptz)))
		RETURNING id, user_name, text, image_ref, created_at`

	created := model.Post{
		ImageContentType: post.ImageContentType,
		ImageSize:        post.ImageSize,
	}
	err := p.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.User,
		&created.Text,
		&created.ImageRef,
		&created.CreatedAt,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_create", err)
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
	p.log.Debug("Successfully created post", slog.Int64("id", created.ID), slog.String("user", created.User))
	return &created, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Getting post by ID", slog.Int64("id", id))

	row := p.db.QueryRow(ctx, selectPosts+` WHERE p.id = @id`, pgx.NamedArgs{"id": id})
	post, err := scanPost(row)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_get_by_id", false)
		p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_get_by_id", err)
	}

	p.metrics.IncrementDatabaseQueries("post_get_by_id", true)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
	return post, nil
}

func (p *PostRepository) GetLatest(ctx context.Context) (*model.Post, error) {
	start := time.Now()

	row := p.db.QueryRow(ctx, selectPosts+` ORDER BY p.created_at DESC, p.id DESC LIMIT 1`)
	post, err := scanPost(row)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_get_latest", false)
		p.metrics.RecordDatabaseQueryDuration("post_get_latest", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("No posts stored yet")
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting latest post", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_get_latest", err)
	}

	p.metrics.IncrementDatabaseQueries("post_get_latest", true)
	p.metrics.RecordDatabaseQueryDuration("post_get_latest", time.Since(start))
	return post, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error) {
	start := time.Now()

	args := pgx.NamedArgs{}
	whereClauses := []string{}

	if filters.User != nil {
		whereClauses = append(whereClauses, "p.user_name = @user_name")
		args["user_name"] = *filters.User
	}
	if filters.TextContains != nil {
		whereClauses = append(whereClauses, "strpos(p.text, @text_contains) > 0")
		args["text_contains"] = *filters.TextContains
	}

	query := selectPosts
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_list", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			p.metrics.IncrementDatabaseQueries("post_list", false)
			p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, domain_errors.NewStorageError("post_list", errors.Join(custom_errors.ErrDatabaseScan, err))
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_list", err)
	}

	p.metrics.IncrementDatabaseQueries("post_list", true)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	return posts, nil
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID,
		&post.User,
		&post.Text,
		&post.ImageRef,
		&post.ImageContentType,
		&post.ImageSize,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
