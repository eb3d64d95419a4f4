package postgres

import (
	"context"
	"errors"
	"log/slog"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/jackc/pgx/v5"
)

// PostReader is the read side of the store, bound to the connection pool.
//
//go:generate mockery --name PostReader --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename PostReader.go
type PostReader interface {
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	GetLatest(ctx context.Context) (*model.Post, error)
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error)
}

//go:generate mockery --name ImageReader --dir . --output ../../../../../mocks/postgres --outpkg mocks --filename ImageReader.go
type ImageReader interface {
	GetByRef(ctx context.Context, ref string) (*model.Image, error)
}

// PostStore is the durable Post Store. Creates run in one transaction holding the append
// lock, so ids, timestamps and commit order agree.
type PostStore struct {
	uow           UnitOfWork
	posts         PostReader
	images        ImageReader
	log           ports.Logger
	maxImageBytes int64
}

func NewPostStore(uow UnitOfWork, posts PostReader, images ImageReader, log ports.Logger, maxImageBytes int64) *PostStore {
	return &PostStore{
		uow:           uow,
		posts:         posts,
		images:        images,
		log:           log,
		maxImageBytes: maxImageBytes,
	}
}

func (s *PostStore) Create(ctx context.Context, post *model.CreatePostDTO) (result *model.Post, err error) {
	if err := post.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}

	image := model.NewImage(post.Image)

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_create", err)
	}

	var txCommitted bool
	defer func() {
		if txCommitted {
			return
		}
		// the caller's context may already be cancelled; rollback must still run
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", slog.String("error", rollbackErr.Error()))
		}
	}()

	postRepo := tx.PostRepository()
	imageRepo := tx.ImageRepository()

	if err := postRepo.LockAppends(ctx); err != nil {
		return nil, err
	}

	stored, err := imageRepo.Save(ctx, image)
	if err != nil {
		return nil, err
	}

	created, err := postRepo.Insert(ctx, &model.Post{
		User:             post.User,
		Text:             post.Text,
		ImageRef:         stored.Ref,
		ImageContentType: stored.ContentType,
		ImageSize:        stored.Size,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, domain_errors.NewStorageError("post_create", err)
	}
	txCommitted = true

	return created, nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostStore) GetLatest(ctx context.Context) (*model.Post, error) {
	return s.posts.GetLatest(ctx)
}

func (s *PostStore) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error) {
	return s.posts.List(ctx, filters)
}

func (s *PostStore) GetImage(ctx context.Context, ref string) (*model.Image, error) {
	return s.images.GetByRef(ctx, ref)
}
