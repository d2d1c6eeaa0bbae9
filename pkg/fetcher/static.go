package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/recipescan/internal/logger"
)

// StaticFetcher uses Colly for static HTML fetching.
type StaticFetcher struct {
	config Config
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg Config) *StaticFetcher {
	return &StaticFetcher{config: withDefaults(cfg)}
}

// Fetch retrieves page content using Colly. Non-2xx responses are errors.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Content, error) {
	logger.Debug("static fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// Create a new collector for each request
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.MaxBodySize = f.config.MaxBodySize
	c.SetRequestTimeout(f.config.Timeout)
	logger.Debug("static fetch configured",
		"timeout", f.config.Timeout,
		"max_body", humanize.IBytes(uint64(max(f.config.MaxBodySize, 0))))

	if len(f.config.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range f.config.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
		if r.Request != nil && r.Request.URL != nil {
			result.URL = r.Request.URL.String()
		}
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", humanize.IBytes(uint64(len(r.Body))))
	})

	c.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
			result.StatusCode = statusCode
		}
		fetchErr = fmt.Errorf("fetch error (status %d): %w", statusCode, err)
		logger.Debug("static fetch error", "status", statusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil {
		if fetchErr != nil {
			return result, fetchErr
		}
		logger.Debug("static fetch visit failed", "url", targetURL, "error", err)
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}

	if fetchErr != nil {
		return result, fetchErr
	}

	logger.Debug("static fetch complete", "url", result.URL)
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return string(ModeStatic)
}

