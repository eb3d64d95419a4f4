package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	post_repository "simple-social-service/internal/domain/ports/output/post"
	"simple-social-service/internal/infrastructure/logger"
	"simple-social-service/internal/infrastructure/outbound/repository/postgres"
	postgres_mock "simple-social-service/mocks/postgres"
)

type storeMocks struct {
	uow      *postgres_mock.UnitOfWork
	tx       *postgres_mock.Transaction
	txPosts  *postgres_mock.TxPostRepository
	txImages *postgres_mock.TxImageRepository
	posts    *postgres_mock.PostReader
	images   *postgres_mock.ImageReader
}

func newStoreMocks() *storeMocks {
	return &storeMocks{
		uow:      new(postgres_mock.UnitOfWork),
		tx:       new(postgres_mock.Transaction),
		txPosts:  new(postgres_mock.TxPostRepository),
		txImages: new(postgres_mock.TxImageRepository),
		posts:    new(postgres_mock.PostReader),
		images:   new(postgres_mock.ImageReader),
	}
}

func (m *storeMocks) assert(t *testing.T) {
	m.uow.AssertExpectations(t)
	m.tx.AssertExpectations(t)
	m.txPosts.AssertExpectations(t)
	m.txImages.AssertExpectations(t)
	m.posts.AssertExpectations(t)
	m.images.AssertExpectations(t)
}

func (m *storeMocks) store() *postgres.PostStore {
	return postgres.NewPostStore(m.uow, m.posts, m.images, logger.New("test"), 1024)
}

func TestPostStore_ImplementsRepository(t *testing.T) {
	var _ post_repository.Repository = newStoreMocks().store()
}

func TestPostStore_Create(t *testing.T) {
	data := []byte("\x89PNG\r\n\x1a\nimage")
	ref := model.ImageRefFor(data)
	created := &model.Post{
		ID:               1,
		User:             "alice",
		Text:             "hi",
		ImageRef:         ref,
		ImageContentType: "image/png",
		ImageSize:        int64(len(data)),
		CreatedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	dto := func() *model.CreatePostDTO {
		return &model.CreatePostDTO{User: "alice", Text: "hi", Image: &model.ImageInput{Data: data}}
	}
	storedImage := &model.Image{Ref: ref, ContentType: "image/png", Size: int64(len(data)), Data: data}
	matchImage := mock.MatchedBy(func(img *model.Image) bool {
		return img.Ref == ref && img.ContentType == "image/png" && img.Size == int64(len(data))
	})
	matchPost := mock.MatchedBy(func(p *model.Post) bool {
		return p.ID == 0 && p.User == "alice" && p.Text == "hi" && p.ImageRef == ref && p.CreatedAt.IsZero()
	})

	tests := []struct {
		name        string
		post        *model.CreatePostDTO
		mocks       func(m *storeMocks)
		want        *model.Post
		wantErrType error
	}{
		{
			name: "Success",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.txPosts)
				m.tx.On("ImageRepository").Return(m.txImages)
				m.txPosts.On("LockAppends", mock.Anything).Return(nil)
				m.txImages.On("Save", mock.Anything, matchImage).Return(storedImage, nil)
				m.txPosts.On("Insert", mock.Anything, matchPost).Return(created, nil)
				m.tx.On("Commit", mock.Anything).Return(nil)
			},
			want: created,
		},
		{
			name:        "Validation happens before the transaction",
			post:        &model.CreatePostDTO{User: "", Image: &model.ImageInput{Data: data}},
			mocks:       func(m *storeMocks) {},
			wantErrType: custom_errors.ErrPostValidation,
		},
		{
			name: "Begin fails",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(nil, errors.New("pool exhausted"))
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Lock fails",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.txPosts)
				m.tx.On("ImageRepository").Return(m.txImages)
				m.txPosts.On("LockAppends", mock.Anything).Return(domain_errors.NewStorageError("post_lock_appends", errors.New("deadlock")))
				m.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Image save fails",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.txPosts)
				m.tx.On("ImageRepository").Return(m.txImages)
				m.txPosts.On("LockAppends", mock.Anything).Return(nil)
				m.txImages.On("Save", mock.Anything, matchImage).Return(nil, domain_errors.NewStorageError("image_save", errors.New("disk full")))
				m.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Insert fails",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.txPosts)
				m.tx.On("ImageRepository").Return(m.txImages)
				m.txPosts.On("LockAppends", mock.Anything).Return(nil)
				m.txImages.On("Save", mock.Anything, matchImage).Return(storedImage, nil)
				m.txPosts.On("Insert", mock.Anything, matchPost).Return(nil, domain_errors.NewStorageError("post_insert", errors.New("constraint")))
				m.tx.On("Rollback", mock.Anything).Return(pgx.ErrTxClosed)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
		{
			name: "Commit fails",
			post: dto(),
			mocks: func(m *storeMocks) {
				m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
				m.tx.On("PostRepository").Return(m.txPosts)
				m.tx.On("ImageRepository").Return(m.txImages)
				m.txPosts.On("LockAppends", mock.Anything).Return(nil)
				m.txImages.On("Save", mock.Anything, matchImage).Return(storedImage, nil)
				m.txPosts.On("Insert", mock.Anything, matchPost).Return(created, nil)
				m.tx.On("Commit", mock.Anything).Return(errors.New("serialization failure"))
				m.tx.On("Rollback", mock.Anything).Return(nil)
			},
			wantErrType: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStoreMocks()
			tt.mocks(m)

			got, err := m.store().Create(context.Background(), tt.post)

			if tt.wantErrType != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErrType), "expected %v, got %v", tt.wantErrType, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.assert(t)
		})
	}
}

func TestPostStore_CreateReportsStoredImageType(t *testing.T) {
	m := newStoreMocks()
	data := []byte("\x89PNG\r\n\x1a\nimage")
	ref := model.ImageRefFor(data)
	stored := &model.Image{Ref: ref, ContentType: "image/png", Size: int64(len(data)), Data: data}

	m.uow.On("Begin", mock.Anything).Return(m.tx, nil)
	m.tx.On("PostRepository").Return(m.txPosts)
	m.tx.On("ImageRepository").Return(m.txImages)
	m.txPosts.On("LockAppends", mock.Anything).Return(nil)
	m.txImages.On("Save", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
		return img.ContentType == "image/webp"
	})).Return(stored, nil)
	m.txPosts.On("Insert", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.ImageRef == ref && p.ImageContentType == "image/png"
	})).Return(func(_ context.Context, p *model.Post) (*model.Post, error) {
		created := *p
		created.ID = 2
		return &created, nil
	})
	m.tx.On("Commit", mock.Anything).Return(nil)

	got, err := m.store().Create(context.Background(), &model.CreatePostDTO{
		User:  "bob",
		Image: &model.ImageInput{ContentType: "image/webp", Data: data},
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.ImageContentType)
	assert.Equal(t, int64(len(data)), got.ImageSize)
	m.assert(t)
}

func TestPostStore_CreateRollsBackWithCancelledContext(t *testing.T) {
	m := newStoreMocks()
	ctx, cancel := context.WithCancel(context.Background())

	m.uow.On("Begin", ctx).Return(m.tx, nil)
	m.tx.On("PostRepository").Return(m.txPosts)
	m.tx.On("ImageRepository").Return(m.txImages)
	m.txPosts.On("LockAppends", ctx).Run(func(mock.Arguments) { cancel() }).Return(context.Canceled)
	m.tx.On("Rollback", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })).Return(nil)

	_, err := m.store().Create(ctx, &model.CreatePostDTO{User: "alice", Image: &model.ImageInput{Data: []byte("x")}})
	assert.True(t, errors.Is(err, context.Canceled))
	m.assert(t)
}

func TestPostStore_Reads(t *testing.T) {
	user := "bob"
	post := &model.Post{ID: 4, User: "bob"}
	image := &model.Image{Ref: "sha256:abc", Data: []byte("abc")}

	m := newStoreMocks()
	m.posts.On("GetByID", mock.Anything, int64(4)).Return(post, nil)
	m.posts.On("GetLatest", mock.Anything).Return(post, nil)
	m.posts.On("List", mock.Anything, model.PostFilters{User: &user}).Return([]*model.Post{post}, nil)
	m.images.On("GetByRef", mock.Anything, "sha256:abc").Return(image, nil)
	m.images.On("GetByRef", mock.Anything, "sha256:none").Return(nil, domain_errors.ErrImageNotFound)

	s := m.store()
	ctx := context.Background()

	got, err := s.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, post, got)

	got, err = s.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, post, got)

	list, err := s.List(ctx, model.PostFilters{User: &user})
	require.NoError(t, err)
	assert.Equal(t, []*model.Post{post}, list)

	img, err := s.GetImage(ctx, "sha256:abc")
	require.NoError(t, err)
	assert.Equal(t, image, img)

	_, err = s.GetImage(ctx, "sha256:none")
	assert.Equal(t, domain_errors.ErrImageNotFound, err)

	m.assert(t)
}
