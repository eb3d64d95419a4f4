package http_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/infrastructure/inbound/http/middleware"
	post_http "simple-social-service/internal/infrastructure/inbound/http/post"

	"github.com/gin-gonic/gin"
)

type Server struct {
	postHTTPService *post_http.PostHTTPService
	server          *http.Server
	address         string
	port            int
	corsOrigins     []string
	log             ports.Logger
	metrics         ports.MetricsProvider
}

func NewServer(
	postHTTPService *post_http.PostHTTPService,
	address string,
	port int,
	corsOrigins []string,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *Server {
	return &Server{
		postHTTPService: postHTTPService,
		address:         address,
		port:            port,
		corsOrigins:     corsOrigins,
		log:             log,
		metrics:         metrics,
	}
}

func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(s.log),
		middleware.Metrics(s.metrics),
		middleware.CORS(s.corsOrigins),
	)
	s.postHTTPService.RegisterRoutes(engine)
	return engine
}

func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Starting HTTP server", slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
