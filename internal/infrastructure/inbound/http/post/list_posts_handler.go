package post_http

import (
	"context"
	"log/slog"
	"net/http"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type PostLister interface {
	ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, error)
}

type ListPostsHandler struct {
	postService PostLister
	log         ports.Logger
}

func NewListPostsHandler(postService PostLister, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{postService: postService, log: log}
}

// ListPosts serves GET /posts; an absent user parameter lists every post.
func (h *ListPostsHandler) ListPosts(c *gin.Context) {
	filters := &model.PostFilters{}
	if user, ok := c.GetQuery("user"); ok {
		filters.User = &user
	}
	h.list(c, filters)
}

// ListUserPosts serves GET /users/:user/posts.
func (h *ListPostsHandler) ListUserPosts(c *gin.Context) {
	user := c.Param("user")
	h.list(c, &model.PostFilters{User: &user})
}

func (h *ListPostsHandler) list(c *gin.Context, filters *model.PostFilters) {
	posts, err := h.postService.ListPosts(c.Request.Context(), filters)
	if err != nil {
		h.log.Error("Failed to list posts", slog.String("error", err.Error()))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}
