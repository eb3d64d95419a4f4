package post_repository

import (
	"context"

	model "simple-social-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	Create(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	GetLatest(ctx context.Context) (*model.Post, error)
	List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error)
	GetImage(ctx context.Context, ref string) (*model.Image, error)
}
