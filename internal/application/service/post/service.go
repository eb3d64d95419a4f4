package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/domain/ports/output/events"
	post_repository "simple-social-service/internal/domain/ports/output/post"

	"github.com/go-playground/validator/v10"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

const eventPublishTimeout = 5 * time.Second

type PostService struct {
	postRepo      post_repository.Repository
	publisher     events.Publisher
	validate      *validator.Validate
	log           ports.Logger
	metrics       ports.MetricsProvider
	maxImageBytes int64

	inflight sync.WaitGroup
}

func NewPostService(
	postRepo post_repository.Repository,
	publisher events.Publisher,
	validate *validator.Validate,
	log ports.Logger,
	metrics ports.MetricsProvider,
	maxImageBytes int64,
) *PostService {
	return &PostService{
		postRepo:      postRepo,
		publisher:     publisher,
		validate:      validate,
		log:           log,
		metrics:       metrics,
		maxImageBytes: maxImageBytes,
	}
}

func (s *PostService) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	if err := s.validatePost(post); err != nil {
		s.log.Debug("Post validation failed", slog.String("error", err.Error()))
		s.metrics.IncrementPostOperations("create", false)
		return nil, err
	}

	created, err := s.postRepo.Create(ctx, post)
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		if domain_errors.IsValidation(err) {
			s.log.Debug("Post rejected by store", slog.String("error", err.Error()))
			return nil, err
		}
		s.log.Error("Failed to create post", slog.String("user", post.User), slog.String("error", err.Error()))
		return nil, asStorageError("post_create", err)
	}

	s.metrics.IncrementPostOperations("create", true)
	s.log.Info("Post created", slog.Int64("id", created.ID), slog.String("user", created.User))

	s.publishCreated(ctx, created)
	return created, nil
}

func (s *PostService) ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, error) {
	var f model.PostFilters
	if filters != nil {
		f = *filters
	}

	posts, err := s.postRepo.List(ctx, f)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, asStorageError("post_list", err)
	}

	s.metrics.IncrementPostOperations("list", true)
	return posts, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, custom_errors.ErrPostNotFound):
			s.log.Debug("Post not found", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		default:
			s.log.Error("Failed to get post by id",
				slog.String("error", err.Error()),
				slog.Int64("id", id))
			return nil, asStorageError("post_get_by_id", err)
		}
	}
	return post, nil
}

func (s *PostService) GetLatestPost(ctx context.Context) (*model.Post, error) {
	post, err := s.postRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get latest post", slog.String("error", err.Error()))
		return nil, asStorageError("post_get_latest", err)
	}
	return post, nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string) ([]*model.Post, error) {
	if query == "" {
		return nil, domain_errors.NewValidationError("query", "query is required")
	}

	posts, err := s.postRepo.List(ctx, model.PostFilters{TextContains: &query})
	if err != nil {
		s.metrics.IncrementPostOperations("search", false)
		s.log.Error("Failed to search posts", slog.String("query", query), slog.String("error", err.Error()))
		return nil, asStorageError("post_search", err)
	}

	s.metrics.IncrementPostOperations("search", true)
	return posts, nil
}

func (s *PostService) GetImage(ctx context.Context, ref string) (*model.Image, error) {
	image, err := s.postRepo.GetImage(ctx, ref)
	if err != nil {
		if errors.Is(err, domain_errors.ErrImageNotFound) {
			s.log.Debug("Image not found", slog.String("ref", ref))
			return nil, domain_errors.ErrImageNotFound
		}
		s.log.Error("Failed to get image", slog.String("ref", ref), slog.String("error", err.Error()))
		return nil, asStorageError("image_get", err)
	}
	return image, nil
}

// Wait blocks until every event publish started by CreatePost has finished.
func (s *PostService) Wait() {
	s.inflight.Wait()
}

func (s *PostService) validatePost(post *model.CreatePostDTO) error {
	if post == nil {
		return domain_errors.NewValidationError("post", "post is required")
	}
	if err := s.validate.Struct(post); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			fe := vErrs[0]
			return domain_errors.NewValidationError(strings.ToLower(fe.Field()), "failed on "+fe.Tag())
		}
		return domain_errors.NewValidationError("post", err.Error())
	}
	return post.Validate(s.maxImageBytes)
}

// publishCreated notifies subscribers without holding up the request; a failed publish
// never fails the create.
func (s *PostService) publishCreated(ctx context.Context, post *model.Post) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
		defer cancel()

		if err := s.publisher.PublishPostCreated(pubCtx, post); err != nil {
			s.log.Warn("Failed to publish post created event",
				slog.Int64("id", post.ID),
				slog.String("error", err.Error()))
		}
	}()
}

func asStorageError(op string, err error) error {
	if domain_errors.IsStorage(err) {
		return err
	}
	return domain_errors.NewStorageError(op, err)
}
