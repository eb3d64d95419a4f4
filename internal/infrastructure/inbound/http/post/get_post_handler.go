package post_http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type PostGetter interface {
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	GetLatestPost(ctx context.Context) (*model.Post, error)
}

type GetPostHandler struct {
	postService PostGetter
	log         ports.Logger
}

func NewGetPostHandler(postService PostGetter, log ports.Logger) *GetPostHandler {
	return &GetPostHandler{postService: postService, log: log}
}

func (h *GetPostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Debug("GetPost invalid id", slog.String("id", c.Param("id")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id", "field": "id"})
		return
	}

	post, err := h.postService.GetPostByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

func (h *GetPostHandler) GetLatestPost(c *gin.Context) {
	post, err := h.postService.GetLatestPost(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}
