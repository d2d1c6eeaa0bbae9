// Package fetcher retrieves recipe pages over HTTP.
//
// The static fetcher suits server-rendered pages, which covers JSON-LD,
// microdata and Next.js hydration payloads. The dynamic fetcher drives a
// headless browser for sites that only assemble the page client-side.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type.
	Type() string
}

// Mode selects a fetcher implementation.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// Config holds configuration shared by the fetchers.
type Config struct {
	UserAgent string
	Timeout   time.Duration

	// MaxBodySize caps the response body in bytes (static only, 0 = unlimited).
	MaxBodySize int

	// Headers are added to every request (static only).
	Headers map[string]string

	// WaitForSelector is a CSS selector to wait for (dynamic only).
	WaitForSelector string

	// WaitDuration is an additional wait after load (dynamic only).
	WaitDuration time.Duration
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultMaxBodySize is the default static response size limit.
const DefaultMaxBodySize = 10 * 1024 * 1024

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrUnknownMode is returned by New for an unrecognised fetch mode.
var ErrUnknownMode = errors.New("unknown fetch mode")

// New creates a fetcher for mode.
func New(mode Mode, cfg Config) (Fetcher, error) {
	switch mode {
	case ModeStatic, "":
		return NewStatic(cfg), nil
	case ModeDynamic:
		return NewDynamic(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func withDefaults(cfg Config) Config {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return cfg
}
