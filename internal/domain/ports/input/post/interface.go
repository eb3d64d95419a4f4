package post_service

import (
	"context"

	model "simple-social-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/service --outpkg mocks --filename PostService.go
type Service interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, error)
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	GetLatestPost(ctx context.Context) (*model.Post, error)
	SearchPosts(ctx context.Context, query string) ([]*model.Post, error)
	GetImage(ctx context.Context, ref string) (*model.Image, error)
}
