package post_service

import (
	"context"
	"errors"
	"testing"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	"simple-social-service/internal/infrastructure/logger"
	"simple-social-service/internal/infrastructure/outbound/metrics/prometheus"
	cache_mock "simple-social-service/mocks/cache"
	service_mock "simple-social-service/mocks/service"
)

func newTestDecorator(svc *service_mock.Service, imageCache *cache_mock.ImageCache) *PostServiceCacheDecorator {
	return NewPostServiceCacheDecorator(
		svc,
		imageCache,
		logger.New("test"),
		prometheus.NewPrometheusMetricsProvider(),
	).(*PostServiceCacheDecorator)
}

func TestPostServiceCacheDecorator_GetImage(t *testing.T) {
	image := &model.Image{Ref: "sha256:abc", ContentType: "image/png", Size: 3, Data: []byte("abc")}

	tests := []struct {
		name        string
		mocks       func(svc *service_mock.Service, imageCache *cache_mock.ImageCache)
		want        *model.Image
		wantErrType error
	}{
		{
			name: "Cache hit",
			mocks: func(svc *service_mock.Service, imageCache *cache_mock.ImageCache) {
				imageCache.On("GetImage", mock.Anything, "sha256:abc").Return(image, nil)
			},
			want: image,
		},
		{
			name: "Cache miss reads through and fills",
			mocks: func(svc *service_mock.Service, imageCache *cache_mock.ImageCache) {
				imageCache.On("GetImage", mock.Anything, "sha256:abc").Return(nil, custom_errors.ErrCacheMiss)
				svc.On("GetImage", mock.Anything, "sha256:abc").Return(image, nil)
				imageCache.On("SetImage", mock.Anything, image).Return(nil)
			},
			want: image,
		},
		{
			name: "Cache failure falls back to service",
			mocks: func(svc *service_mock.Service, imageCache *cache_mock.ImageCache) {
				imageCache.On("GetImage", mock.Anything, "sha256:abc").Return(nil, errors.New("redis down"))
				svc.On("GetImage", mock.Anything, "sha256:abc").Return(image, nil)
				imageCache.On("SetImage", mock.Anything, image).Return(errors.New("redis down"))
			},
			want: image,
		},
		{
			name: "Not found is not cached",
			mocks: func(svc *service_mock.Service, imageCache *cache_mock.ImageCache) {
				imageCache.On("GetImage", mock.Anything, "sha256:abc").Return(nil, custom_errors.ErrCacheMiss)
				svc.On("GetImage", mock.Anything, "sha256:abc").Return(nil, domain_errors.ErrImageNotFound)
			},
			wantErrType: domain_errors.ErrImageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(service_mock.Service)
			imageCache := new(cache_mock.ImageCache)
			tt.mocks(svc, imageCache)

			d := newTestDecorator(svc, imageCache)
			got, err := d.GetImage(context.Background(), "sha256:abc")

			if tt.wantErrType != nil {
				assert.True(t, errors.Is(err, tt.wantErrType))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			svc.AssertExpectations(t)
			imageCache.AssertExpectations(t)
		})
	}
}

func TestPostServiceCacheDecorator_CreatePost(t *testing.T) {
	dto := newCreateDTO("alice", "hi")
	created := &model.Post{
		ID:               1,
		User:             "alice",
		ImageRef:         model.ImageRefFor(dto.Image.Data),
		ImageContentType: "image/png",
		ImageSize:        int64(len(dto.Image.Data)),
	}

	t.Run("Warms image cache", func(t *testing.T) {
		svc := new(service_mock.Service)
		imageCache := new(cache_mock.ImageCache)
		svc.On("CreatePost", mock.Anything, dto).Return(created, nil)
		imageCache.On("SetImage", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
			return img.Ref == created.ImageRef && img.ContentType == "image/png"
		})).Return(nil)

		got, err := newTestDecorator(svc, imageCache).CreatePost(context.Background(), dto)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		svc.AssertExpectations(t)
		imageCache.AssertExpectations(t)
	})

	t.Run("Warms with the stored image type", func(t *testing.T) {
		relabelled := newCreateDTO("bob", "same bytes")
		relabelled.Image.ContentType = "image/webp"
		svc := new(service_mock.Service)
		imageCache := new(cache_mock.ImageCache)
		svc.On("CreatePost", mock.Anything, relabelled).Return(created, nil)
		imageCache.On("SetImage", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
			return img.Ref == created.ImageRef && img.ContentType == "image/png" && img.Size == created.ImageSize
		})).Return(nil)

		_, err := newTestDecorator(svc, imageCache).CreatePost(context.Background(), relabelled)
		require.NoError(t, err)
		imageCache.AssertExpectations(t)
	})

	t.Run("Cache failure is ignored", func(t *testing.T) {
		svc := new(service_mock.Service)
		imageCache := new(cache_mock.ImageCache)
		svc.On("CreatePost", mock.Anything, dto).Return(created, nil)
		imageCache.On("SetImage", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		got, err := newTestDecorator(svc, imageCache).CreatePost(context.Background(), dto)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("Create failure skips cache", func(t *testing.T) {
		svc := new(service_mock.Service)
		imageCache := new(cache_mock.ImageCache)
		svc.On("CreatePost", mock.Anything, dto).Return(nil, domain_errors.NewValidationError("user", "user is required"))

		_, err := newTestDecorator(svc, imageCache).CreatePost(context.Background(), dto)
		assert.True(t, domain_errors.IsValidation(err))
		imageCache.AssertNotCalled(t, "SetImage", mock.Anything, mock.Anything)
	})
}

func TestPostServiceCacheDecorator_PassThrough(t *testing.T) {
	user := "alice"
	posts := []*model.Post{{ID: 2, User: "alice"}, {ID: 1, User: "alice"}}

	svc := new(service_mock.Service)
	imageCache := new(cache_mock.ImageCache)
	svc.On("ListPosts", mock.Anything, &model.PostFilters{User: &user}).Return(posts, nil)
	svc.On("GetPostByID", mock.Anything, int64(2)).Return(posts[0], nil)
	svc.On("GetLatestPost", mock.Anything).Return(posts[0], nil)
	svc.On("SearchPosts", mock.Anything, "cat").Return([]*model.Post{}, nil)

	d := newTestDecorator(svc, imageCache)
	ctx := context.Background()

	got, err := d.ListPosts(ctx, &model.PostFilters{User: &user})
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	one, err := d.GetPostByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, posts[0], one)

	latest, err := d.GetLatestPost(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts[0], latest)

	found, err := d.SearchPosts(ctx, "cat")
	require.NoError(t, err)
	assert.Empty(t, found)

	svc.AssertExpectations(t)
	imageCache.AssertExpectations(t)
}
