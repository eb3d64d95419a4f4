package cache

import (
	"context"

	model "simple-social-service/internal/domain/models"
)

//go:generate mockery --name ImageCache --dir . --output ../../../../../mocks/cache --outpkg mocks --filename ImageCache.go
type ImageCache interface {
	GetImage(ctx context.Context, ref string) (*model.Image, error)
	SetImage(ctx context.Context, image *model.Image) error
}
