package post_http

import (
	"errors"
	"net/http"
	"time"

	domain_errors "simple-social-service/internal/domain/errors"
	model "simple-social-service/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

const imagesPath = "/images/"

type PostResponse struct {
	ID               int64     `json:"id"`
	User             string    `json:"user"`
	Text             string    `json:"text"`
	ImageRef         string    `json:"image_ref"`
	ImageURL         string    `json:"image_url"`
	ImageContentType string    `json:"image_content_type"`
	ImageSize        int64     `json:"image_size"`
	CreatedAt        time.Time `json:"created_at"`
}

func toPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		ID:               p.ID,
		User:             p.User,
		Text:             p.Text,
		ImageRef:         p.ImageRef,
		ImageURL:         imagesPath + p.ImageRef,
		ImageContentType: p.ImageContentType,
		ImageSize:        p.ImageSize,
		CreatedAt:        p.CreatedAt,
	}
}

func toPostResponses(posts []*model.Post) []PostResponse {
	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	return resp
}

// writeError maps domain errors onto status codes. Storage details never reach the
// client.
func writeError(c *gin.Context, err error) {
	var vErr *domain_errors.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason, "field": vErr.Field})
	case errors.Is(err, custom_errors.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, domain_errors.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
