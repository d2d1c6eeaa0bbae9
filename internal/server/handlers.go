package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/pending"
	"github.com/jmylchreest/recipescan/internal/version"
	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// ExtractRequest is the body of POST /v1/extract. With HTML set the page is
// not fetched and URL only fills the recipe URL.
type ExtractRequest struct {
	URL  string `json:"url" binding:"omitempty,http_url"`
	HTML string `json:"html"`
}

// ExtractResponse is returned for a successful extraction.
type ExtractResponse struct {
	Recipe   *recipe.Recipe  `json:"recipe"`
	Warnings recipe.Warnings `json:"warnings"`
	Method   recipe.Method   `json:"method"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// PendingRequest is the body of PUT /v1/pending.
type PendingRequest struct {
	URL string `json:"url" binding:"required"`
}

// PendingResponse reports the pending URL.
type PendingResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version.String(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	if req.URL == "" && req.HTML == "" {
		s.fail(c, http.StatusBadRequest, errors.New("url or html is required"))
		return
	}

	var (
		result *recipescan.Result
		err    error
	)
	if req.HTML != "" {
		result, err = s.scanner.ScanHTML(req.HTML, req.URL)
	} else {
		result, err = s.scanner.Scan(c.Request.Context(), req.URL)
	}
	if err != nil {
		s.scanFailed(c, err)
		return
	}

	logger.Debug("recipe extracted",
		"url", req.URL,
		"method", result.Method,
		"warnings", len(result.Warnings),
		"request_id", requestid.Get(c))

	c.JSON(http.StatusOK, ExtractResponse{
		Recipe:   result.Recipe,
		Warnings: result.Warnings,
		Method:   result.Method,
	})
}

func (s *Server) handlePendingGet(c *gin.Context) {
	url, err := s.cfg.Pending.Get(c.Request.Context())
	if err != nil {
		s.pendingFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, PendingResponse{URL: url})
}

func (s *Server) handlePendingSet(c *gin.Context) {
	var req PendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.cfg.Pending.Set(c.Request.Context(), req.URL); err != nil {
		s.pendingFailed(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePendingClear(c *gin.Context) {
	if err := s.cfg.Pending.Clear(c.Request.Context()); err != nil {
		s.pendingFailed(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePendingScan(c *gin.Context) {
	url, err := pending.Take(c.Request.Context(), s.cfg.Pending)
	if err != nil {
		s.pendingFailed(c, err)
		return
	}

	result, err := s.scanner.Scan(c.Request.Context(), url)
	if err != nil {
		s.scanFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{
		Recipe:   result.Recipe,
		Warnings: result.Warnings,
		Method:   result.Method,
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.fail(c, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return
	}
	s.fail(c, http.StatusBadRequest, err)
}

func (s *Server) scanFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recipescan.ErrNoRecipeFound):
		s.fail(c, http.StatusUnprocessableEntity, recipescan.ErrNoRecipeFound)
	case errors.Is(err, recipescan.ErrFetchFailed):
		s.fail(c, http.StatusBadGateway, err)
	default:
		s.fail(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) pendingFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pending.ErrNotFound):
		s.fail(c, http.StatusNotFound, err)
	case errors.Is(err, pending.ErrInvalidURL):
		s.fail(c, http.StatusBadRequest, err)
	default:
		s.fail(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	abortWithError(c, status, err.Error())
}
