package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
)

// Server represents the HTTP server
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	limiters   *RateLimiters

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(deps *types.Dependencies) (*Server, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("server requires dependencies with config")
	}
	cfg := deps.Config.Server

	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())
	// Multipart parts beyond this spill to temp files
	engine.MaxMultipartMemory = 32 << 20

	return &Server{
		engine:       engine,
		limiters:     NewRateLimiters(),
		dependencies: deps,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:        engine,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}, nil
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.engine.Use(RequestLogger(s.dependencies.Logger))
	s.engine.Use(CORS())

	return RegisterRoutes(s.engine, s.dependencies, s.limiters)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiters.Close()
	return s.httpServer.Shutdown(ctx)
}
