package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

func NewServer(config ServerConfig, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	RegisterHandlers(mux)
	RegisterWSHandlers(mux, logger)
	RegisterIndexHandler(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	chain := Chain(
		RecoveryMiddleware(logger),
		LoggerMiddleware(logger),
		CORSMiddleware(config.AllowedOrigins),
	)

	return &Server{
		server: &http.Server{
			Addr: fmt.Sprintf(":%d", config.Port),
			// No Read/WriteTimeout: the predict websocket is long-lived.
			ReadHeaderTimeout: config.Timeout,
			Handler:           chain(mux),
			IdleTimeout:       120 * time.Second,
		},
		config: config,
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler returns the fully composed handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
