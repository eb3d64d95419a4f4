package post_http

import (
	"context"
	"net/http"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type PostSearcher interface {
	SearchPosts(ctx context.Context, query string) ([]*model.Post, error)
}

type SearchPostsHandler struct {
	postService PostSearcher
	log         ports.Logger
}

func NewSearchPostsHandler(postService PostSearcher, log ports.Logger) *SearchPostsHandler {
	return &SearchPostsHandler{postService: postService, log: log}
}

func (h *SearchPostsHandler) SearchPosts(c *gin.Context) {
	posts, err := h.postService.SearchPosts(c.Request.Context(), c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}
