// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Resolver resolves a single query into a response envelope
type Resolver interface {
	Resolve(ctx context.Context, query string) model.PipelineResponse
}

// Options configures a Server
type Options struct {
	Addr           string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Server serves the fact-check API
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	resolver   Resolver
	timeout    time.Duration
	logger     *zap.Logger
}

type factCheckRequest struct {
	Query string `json:"query" binding:"required"`
}

type factCheckQuery struct {
	Q string `form:"q" binding:"required"`
}

// New creates a server backed by resolver
func New(resolver Resolver, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		engine:   gin.New(),
		resolver: resolver,
		timeout:  opts.RequestTimeout,
		logger:   logger,
	}

	s.engine.Use(gin.Recovery(), requestLogger(logger))
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/fact-check", s.handlePost)
	api.GET("/fact-check", s.handleGet)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handlePost(c *gin.Context) {
	var req factCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse("", "invalid request body: "+err.Error()))
		return
	}
	s.resolve(c, req.Query)
}

func (s *Server) handleGet(c *gin.Context) {
	var q factCheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse("", "missing query parameter q"))
		return
	}
	s.resolve(c, q.Q)
}

func (s *Server) resolve(c *gin.Context, query string) {
	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	c.JSON(http.StatusOK, s.resolver.Resolve(ctx, query))
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
