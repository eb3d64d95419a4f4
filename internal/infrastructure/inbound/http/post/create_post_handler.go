package post_http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the body allowance on top of the image limit for the text
// fields and multipart framing.
const multipartOverhead = 1 << 20

type PostCreator interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
}

type CreatePostHandler struct {
	postService   PostCreator
	log           ports.Logger
	maxImageBytes int64
}

func NewCreatePostHandler(postService PostCreator, log ports.Logger, maxImageBytes int64) *CreatePostHandler {
	return &CreatePostHandler{
		postService:   postService,
		log:           log,
		maxImageBytes: maxImageBytes,
	}
}

func (h *CreatePostHandler) CreatePost(c *gin.Context) {
	if h.maxImageBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+multipartOverhead)
	}

	image, err := h.readImage(c)
	if err != nil {
		h.log.Debug("CreatePost rejected upload", slog.String("error", err.Error()))
		writeError(c, err)
		return
	}

	dto := &model.CreatePostDTO{
		User:  c.PostForm("user"),
		Text:  c.PostForm("text"),
		Image: image,
	}

	created, err := h.postService.CreatePost(c.Request.Context(), dto)
	if err != nil {
		if domain_errors.IsValidation(err) {
			h.log.Debug("CreatePost validation failed", slog.String("error", err.Error()))
		} else {
			h.log.Error("Failed to create post", slog.String("user", dto.User), slog.String("error", err.Error()))
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(created))
}

// readImage returns nil, nil when no image part was sent so the service reports the
// missing field uniformly.
func (h *CreatePostHandler) readImage(c *gin.Context) (*model.ImageInput, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, domain_errors.NewValidationError("image", "image exceeds maximum size")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		default:
			return nil, domain_errors.NewValidationError("image", "malformed multipart body")
		}
	}

	if h.maxImageBytes > 0 && fileHeader.Size > h.maxImageBytes {
		return nil, domain_errors.NewValidationError("image", "image exceeds maximum size")
	}

	data, err := readPart(fileHeader, h.maxImageBytes)
	if err != nil {
		return nil, domain_errors.NewValidationError("image", "unreadable image part")
	}

	return &model.ImageInput{
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// readPart reads at most limit+1 bytes; a non-positive limit reads the whole part.
func readPart(fileHeader *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, limit+1))
}
