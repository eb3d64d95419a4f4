package post_http

import (
	"net/http"

	post_service "simple-social-service/internal/domain/ports/input/post"
	ports "simple-social-service/internal/domain/ports/output"

	"github.com/gin-gonic/gin"
)

type PostHTTPService struct {
	createPostHandler  *CreatePostHandler
	listPostsHandler   *ListPostsHandler
	getPostHandler     *GetPostHandler
	searchPostsHandler *SearchPostsHandler
	getImageHandler    *GetImageHandler
}

func NewPostHTTPService(postService post_service.Service, log ports.Logger, maxImageBytes int64) *PostHTTPService {
	return &PostHTTPService{
		createPostHandler:  NewCreatePostHandler(postService, log, maxImageBytes),
		listPostsHandler:   NewListPostsHandler(postService, log),
		getPostHandler:     NewGetPostHandler(postService, log),
		searchPostsHandler: NewSearchPostsHandler(postService, log),
		getImageHandler:    NewGetImageHandler(postService, log),
	}
}

func (s *PostHTTPService) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/posts", s.createPostHandler.CreatePost)
	r.GET("/posts", s.listPostsHandler.ListPosts)
	// static segments take precedence over :id in gin's router
	r.GET("/posts/latest", s.getPostHandler.GetLatestPost)
	r.GET("/posts/search", s.searchPostsHandler.SearchPosts)
	r.GET("/posts/:id", s.getPostHandler.GetPost)
	r.GET("/users/:user/posts", s.listPostsHandler.ListUserPosts)
	r.GET("/images/:ref", s.getImageHandler.GetImage)
}
