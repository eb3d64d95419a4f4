package post_service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	model "simple-social-service/internal/domain/models"
	post_service "simple-social-service/internal/domain/ports/input/post"
	output "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/domain/ports/output/cache"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

// PostServiceCacheDecorator serves image blobs from the cache. Posts themselves are not
// cached: listings must always reflect every committed create.
type PostServiceCacheDecorator struct {
	service    post_service.Service
	imageCache cache.ImageCache
	log        output.Logger
	metrics    output.MetricsProvider
}

func NewPostServiceCacheDecorator(
	service post_service.Service,
	imageCache cache.ImageCache,
	log output.Logger,
	metrics output.MetricsProvider,
) post_service.Service {
	return &PostServiceCacheDecorator{
		service:    service,
		imageCache: imageCache,
		log:        log,
		metrics:    metrics,
	}
}

func (d *PostServiceCacheDecorator) CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	result, err := d.service.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	image := model.NewImage(post.Image)
	image.ContentType = result.ImageContentType
	image.Size = result.ImageSize

	start := time.Now()
	if err := d.imageCache.SetImage(ctx, image); err != nil {
		d.log.Warn("Failed to cache image after post creation",
			slog.String("ref", result.ImageRef),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("image_set", time.Since(start))

	return result, nil
}

func (d *PostServiceCacheDecorator) ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, error) {
	return d.service.ListPosts(ctx, filters)
}

func (d *PostServiceCacheDecorator) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	return d.service.GetPostByID(ctx, id)
}

func (d *PostServiceCacheDecorator) GetLatestPost(ctx context.Context) (*model.Post, error) {
	return d.service.GetLatestPost(ctx)
}

func (d *PostServiceCacheDecorator) SearchPosts(ctx context.Context, query string) ([]*model.Post, error) {
	return d.service.SearchPosts(ctx, query)
}

func (d *PostServiceCacheDecorator) GetImage(ctx context.Context, ref string) (*model.Image, error) {
	cacheStart := time.Now()
	cached, err := d.imageCache.GetImage(ctx, ref)
	d.metrics.RecordCacheOperationDuration("image_get", time.Since(cacheStart))
	if err == nil {
		d.metrics.IncrementCacheHits()
		return cached, nil
	}

	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		d.log.Warn("Failed to get image from cache",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
	} else {
		d.metrics.IncrementCacheMisses()
	}

	image, err := d.service.GetImage(ctx, ref)
	if err != nil {
		return nil, err
	}

	setStart := time.Now()
	if err := d.imageCache.SetImage(ctx, image); err != nil {
		d.log.Warn("Failed to cache image",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("image_set", time.Since(setStart))

	return image, nil
}
