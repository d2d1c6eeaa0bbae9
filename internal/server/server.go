// Package server exposes recipe extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/pending"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultMaxRequestBody caps request bodies, which may carry full HTML.
	DefaultMaxRequestBody = 10 << 20

	shutdownTimeout = 10 * time.Second
)

// Scanner is the extraction surface the server needs.
type Scanner interface {
	Scan(ctx context.Context, url string) (*recipescan.Result, error)
	ScanHTML(html, sourceURL string) (*recipescan.Result, error)
}

// Config configures the HTTP server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	MaxRequestBody int64
	AllowOrigins   []string
	Debug          bool

	// Pending enables the /v1/pending endpoints when set.
	Pending pending.Store
}

// Server serves the extraction API.
type Server struct {
	scanner Scanner
	cfg     Config
	router  *gin.Engine
}

// New creates a server backed by scanner.
func New(scanner Scanner, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxRequestBody <= 0 {
		cfg.MaxRequestBody = DefaultMaxRequestBody
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	s := &Server{scanner: scanner, cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.NewString()
	})))
	router.Use(Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(BodySizeLimit(s.cfg.MaxRequestBody))
	if s.cfg.RequestTimeout > 0 {
		router.Use(Timeout(s.cfg.RequestTimeout))
	}

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/v1")
	v1.POST("/extract", s.handleExtract)
	if s.cfg.Pending != nil {
		v1.GET("/pending", s.handlePendingGet)
		v1.PUT("/pending", s.handlePendingSet)
		v1.DELETE("/pending", s.handlePendingClear)
		v1.POST("/pending/scan", s.handlePendingScan)
	}

	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
