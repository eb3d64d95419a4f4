package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

const (
	imageCacheKeyPrefix = "image:"
	// Blobs are immutable, so the TTL only bounds memory use.
	imageCacheTTL = 24 * time.Hour
)

type ImageCache struct {
	client *Client
	log    ports.Logger
}

func NewImageCache(client *Client, log ports.Logger) *ImageCache {
	return &ImageCache{
		client: client,
		log:    log,
	}
}

func (i *ImageCache) GetImage(ctx context.Context, ref string) (*model.Image, error) {
	key := imageKey(ref)

	var image model.Image
	err := i.client.Get(ctx, key, &image)
	if err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			i.log.Debug("Image cache miss", slog.String("ref", ref))
			return nil, custom_errors.ErrCacheMiss
		}
		i.log.Error("Failed to get image from cache",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get image from cache: %w", err)
	}

	i.log.Debug("Image cache hit", slog.String("ref", ref))
	return &image, nil
}

func (i *ImageCache) SetImage(ctx context.Context, image *model.Image) error {
	if image == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if err := i.client.Set(ctx, imageKey(image.Ref), image, imageCacheTTL); err != nil {
		i.log.Error("Failed to set image cache",
			slog.String("ref", image.Ref),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to set image cache: %w", err)
	}

	i.log.Debug("Image cached successfully",
		slog.String("ref", image.Ref),
		slog.Duration("ttl", imageCacheTTL))
	return nil
}

func imageKey(ref string) string {
	return imageCacheKeyPrefix + ref
}
