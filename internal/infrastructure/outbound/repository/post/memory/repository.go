// Package memory is a process-lifetime Post Store. Nothing survives a restart; use the
// postgres store when durability is required.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

type PostRepository struct {
	log           ports.Logger
	metrics       ports.MetricsProvider
	maxImageBytes int64
	now           func() time.Time

	mu     sync.RWMutex
	posts  []*model.Post // insertion order, oldest first
	byID   map[int64]int
	images map[string]*model.Image
	nextID int64
}

func NewPostRepository(log ports.Logger, metrics ports.MetricsProvider, maxImageBytes int64) *PostRepository {
	return &PostRepository{
		log:           log,
		metrics:       metrics,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
		byID:          make(map[int64]int),
		images:        make(map[string]*model.Image),
		nextID:        1,
	}
}

// WithClock replaces the time source. Intended for tests.
func (p *PostRepository) WithClock(now func() time.Time) *PostRepository {
	p.now = now
	return p
}

func (p *PostRepository) Create(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error) {
	if err := post.Validate(p.maxImageBytes); err != nil {
		p.log.Debug("Rejected post (memory impl)", slog.String("error", err.Error()))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain_errors.NewStorageError("post_create", err)
	}

	image := model.NewImage(post.Image)

	p.mu.Lock()
	defer p.mu.Unlock()

	createdAt := p.now().UTC()
	if n := len(p.posts); n > 0 && createdAt.Before(p.posts[n-1].CreatedAt) {
		createdAt = p.posts[n-1].CreatedAt
	}

	if stored, exists := p.images[image.Ref]; exists {
		image = stored
	} else {
		p.images[image.Ref] = image
	}

	newPost := &model.Post{
		ID:               p.nextID,
		User:             post.User,
		Text:             post.Text,
		ImageRef:         image.Ref,
		ImageContentType: image.ContentType,
		ImageSize:        image.Size,
		CreatedAt:        createdAt,
	}
	p.nextID++

	p.byID[newPost.ID] = len(p.posts)
	p.posts = append(p.posts, newPost)
	p.metrics.SetStoredPosts(len(p.posts))

	p.log.Debug("Successfully created post (memory impl)", slog.Int64("id", newPost.ID), slog.String("user", newPost.User))
	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	idx, exists := p.byID[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *p.posts[idx]
	return &result, nil
}

func (p *PostRepository) GetLatest(ctx context.Context) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.posts) == 0 {
		return nil, custom_errors.ErrPostNotFound
	}

	result := *p.posts[len(p.posts)-1]
	return &result, nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0)
	for i := len(p.posts) - 1; i >= 0; i-- {
		post := p.posts[i]
		if !filters.Match(post) {
			continue
		}
		postCopy := *post
		result = append(result, &postCopy)
	}

	return result, nil
}

func (p *PostRepository) GetImage(ctx context.Context, ref string) (*model.Image, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	image, exists := p.images[ref]
	if !exists {
		p.log.Debug("Image not found", slog.String("ref", ref))
		return nil, domain_errors.ErrImageNotFound
	}

	result := *image
	return &result, nil
}
