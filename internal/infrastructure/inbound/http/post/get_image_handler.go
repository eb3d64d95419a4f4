package post_http

import (
	"context"
	"net/http"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type ImageGetter interface {
	GetImage(ctx context.Context, ref string) (*model.Image, error)
}

type GetImageHandler struct {
	postService ImageGetter
	log         ports.Logger
}

func NewGetImageHandler(postService ImageGetter, log ports.Logger) *GetImageHandler {
	return &GetImageHandler{postService: postService, log: log}
}

func (h *GetImageHandler) GetImage(c *gin.Context) {
	ref := c.Param("ref")

	image, err := h.postService.GetImage(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}

	// content-addressed, so the bytes behind a ref never change
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("ETag", `"`+image.Ref+`"`)
	c.Data(http.StatusOK, image.ContentType, image.Data)
}
