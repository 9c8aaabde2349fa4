package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

const shutdownTimeout = 5 * time.Second

// Server serves the trailer API.
type Server struct {
	httpServer *http.Server
	logger     hclog.Logger
}

// NewRouter builds the gin engine with recovery, request logging and routes.
func NewRouter(handler *Handler, logger hclog.Logger) *gin.Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger.Named("http")))
	RegisterRoutes(router, handler)
	return router
}

// New creates a server listening on addr.
func New(addr string, handler *Handler, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(handler, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", listener.Addr().String())
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
