package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/recipescan/internal/logger"
)

// Logger logs one line per request, at a level chosen by status code.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"request_id", requestid.Get(c),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.Errors())
		}

		switch {
		case status >= 500:
			logger.Error("request failed", args...)
		case status >= 400:
			logger.Warn("request rejected", args...)
		default:
			logger.Info("request completed", args...)
		}
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method)
				abortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// BodySizeLimit rejects request bodies larger than maxSize bytes.
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			abortWithError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// Timeout bounds the request context.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// abortWithError writes the JSON error body shared by handlers and
// middleware.
func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     msg,
		RequestID: requestid.Get(c),
	})
}
