// Package pending stores a single URL handed over from a share surface
// (browser extension, mobile share sheet, another process) until the main
// application picks it up and scans it.
package pending

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no URL is pending.
var ErrNotFound = errors.New("no pending url")

// ErrInvalidURL is returned by Set for URLs that are not absolute http(s).
var ErrInvalidURL = errors.New("invalid pending url")

// Store holds at most one pending URL.
type Store interface {
	// Get returns the pending URL or ErrNotFound.
	Get(ctx context.Context) (string, error)

	// Set replaces the pending URL.
	Set(ctx context.Context, url string) error

	// Clear removes the pending URL. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// entry is the persisted form of a pending URL.
type entry struct {
	URL   string    `json:"url"`
	SetAt time.Time `json:"set_at"`
}

// Validate checks that raw is an absolute http or https URL and returns it
// trimmed.
func Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return raw, nil
}

// Take returns the pending URL and clears it.
func Take(ctx context.Context, s Store) (string, error) {
	u, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Clear(ctx); err != nil {
		return "", fmt.Errorf("clear pending url: %w", err)
	}
	return u, nil
}
