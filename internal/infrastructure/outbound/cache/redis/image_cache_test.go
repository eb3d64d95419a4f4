package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "simple-social-service/internal/domain/models"
	"simple-social-service/internal/infrastructure/config"
	"simple-social-service/internal/infrastructure/logger"
)

func setupImageCacheTest(t *testing.T) (*ImageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	log := logger.New("test")
	client, err := NewClient(config.Redis{Address: mr.Host(), Port: port, PoolSize: 2}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewImageCache(client, log), mr
}

func TestImageKey(t *testing.T) {
	assert.Equal(t, "image:sha256:abc", imageKey("sha256:abc"))
}

func TestImageCache_SetImage_Nil(t *testing.T) {
	cache := NewImageCache(nil, logger.New("test"))
	assert.Error(t, cache.SetImage(context.Background(), nil))
}

func TestImageCache_RoundTrip(t *testing.T) {
	cache, mr := setupImageCacheTest(t)
	ctx := context.Background()

	data := []byte("\x89PNG\r\n\x1a\n\x00\xffbinary")
	image := model.NewImage(&model.ImageInput{ContentType: "image/png", Data: data})

	require.NoError(t, cache.SetImage(ctx, image))
	assert.True(t, mr.Exists(imageKey(image.Ref)))
	assert.Equal(t, imageCacheTTL, mr.TTL(imageKey(image.Ref)))

	got, err := cache.GetImage(ctx, image.Ref)
	require.NoError(t, err)
	assert.Equal(t, image, got)
	assert.Equal(t, data, got.Data)
}

func TestImageCache_GetImage_Miss(t *testing.T) {
	cache, _ := setupImageCacheTest(t)

	_, err := cache.GetImage(context.Background(), "sha256:missing")
	assert.True(t, errors.Is(err, custom_errors.ErrCacheMiss))
}

func TestImageCache_GetImage_CorruptValue(t *testing.T) {
	cache, mr := setupImageCacheTest(t)
	require.NoError(t, mr.Set(imageKey("sha256:abc"), "not json"))

	_, err := cache.GetImage(context.Background(), "sha256:abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, custom_errors.ErrCacheMiss))
}

func TestImageCache_ServerDown(t *testing.T) {
	cache, mr := setupImageCacheTest(t)
	mr.Close()

	ctx := context.Background()
	_, err := cache.GetImage(ctx, "sha256:abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, custom_errors.ErrCacheMiss))

	image := model.NewImage(&model.ImageInput{ContentType: "image/png", Data: []byte("png")})
	assert.Error(t, cache.SetImage(ctx, image))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	_, err = NewClient(config.Redis{Address: host, Port: port}, logger.New("test"))
	assert.Error(t, err)
}
