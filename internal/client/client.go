// Package client talks to a remote `recipescan serve` instance.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/server"
	"github.com/jmylchreest/recipescan/internal/version"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// DefaultTimeout bounds each API call.
const DefaultTimeout = 60 * time.Second

// Client extracts recipes through the HTTP API.
type Client struct {
	http    *resty.Client
	baseURL string
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL = strings.TrimRight(baseURL, "/")
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipescan-cli/"+version.String())
	return &Client{http: c, baseURL: baseURL}
}

// Scan asks the server to fetch and extract url.
func (c *Client) Scan(ctx context.Context, url string) (*recipescan.Result, error) {
	return c.extract(ctx, server.ExtractRequest{URL: url})
}

// ScanHTML sends already-fetched HTML for extraction.
func (c *Client) ScanHTML(ctx context.Context, html, sourceURL string) (*recipescan.Result, error) {
	return c.extract(ctx, server.ExtractRequest{URL: sourceURL, HTML: html})
}

func (c *Client) extract(ctx context.Context, req server.ExtractRequest) (*recipescan.Result, error) {
	var (
		body    server.ExtractResponse
		apiErr  server.ErrorResponse
		started = time.Now()
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		SetError(&apiErr).
		Post("/v1/extract")
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", c.baseURL, err)
	}

	logger.Debug("remote extract",
		"server", c.baseURL,
		"status", resp.StatusCode(),
		"request_id", resp.Header().Get("X-Request-ID"),
		"duration", time.Since(started))

	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), apiErr.Error)
	}
	if body.Recipe == nil {
		return nil, fmt.Errorf("server %s returned no recipe", c.baseURL)
	}

	return &recipescan.Result{
		URL:             req.URL,
		FetchedAt:       time.Now(),
		Recipe:          body.Recipe,
		Warnings:        body.Warnings,
		Method:          body.Method,
		ExtractDuration: time.Since(started),
	}, nil
}

// statusError maps API failures back onto the library's sentinels.
func statusError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusUnprocessableEntity:
		return recipescan.ErrNoRecipeFound
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", recipescan.ErrFetchFailed, strings.TrimPrefix(msg, "fetch failed: "))
	default:
		return fmt.Errorf("server error (status %d): %s", status, msg)
	}
}
