// Package recipescan provides the public API for extracting recipes from web
// pages: fetch a URL, detect the embedded recipe data and normalize it.
package recipescan

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/cleaner"
	"github.com/jmylchreest/recipescan/pkg/extractor"
	"github.com/jmylchreest/recipescan/pkg/fetcher"
	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// ErrNoRecipeFound is returned when a page holds no recognisable recipe.
// Check with errors.Is.
var ErrNoRecipeFound = extractor.ErrNoRecipeFound

// ErrFetchFailed wraps every error raised while retrieving a page.
var ErrFetchFailed = errors.New("fetch failed")

// Version returns the module version of the recipescan library.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Result represents a scan result.
type Result struct {
	URL       string          `json:"url" yaml:"url"`
	FetchedAt time.Time       `json:"fetched_at" yaml:"fetched_at"`
	Recipe    *recipe.Recipe  `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Warnings  recipe.Warnings `json:"warnings" yaml:"warnings"`
	Method    recipe.Method   `json:"method,omitempty" yaml:"method,omitempty"`
	PageTitle string          `json:"page_title,omitempty" yaml:"page_title,omitempty"`

	FetchDuration   time.Duration `json:"-" yaml:"-"`
	ExtractDuration time.Duration `json:"-" yaml:"-"`
	Error           error         `json:"-" yaml:"-"`
}

// Scanner is the main entry point for recipe extraction.
type Scanner struct {
	fetcher   fetcher.Fetcher
	extractor *extractor.Extractor
	config    Config
}

// New creates a new Scanner. It returns an error wrapping ErrInvalidConfig
// when the options produce an invalid configuration.
func New(opts ...Option) (*Scanner, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Use injected fetcher or create one for the fetch mode
	f := cfg.Fetcher
	if f == nil {
		var err error
		f, err = fetcher.New(cfg.FetchMode, fetcher.Config{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			MaxBodySize: cfg.MaxBodySize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
	}

	var extOpts []extractor.Option
	if len(cfg.Detectors) > 0 {
		extOpts = append(extOpts, extractor.WithDetectors(cfg.Detectors...))
	}
	if cfg.Clock != nil {
		extOpts = append(extOpts, extractor.WithClock(cfg.Clock))
	}
	polisher, err := cleaner.ForMode(cfg.Polish)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if polisher != nil {
		extOpts = append(extOpts, extractor.WithPolish(polisher))
	}

	return &Scanner{
		fetcher:   f,
		extractor: extractor.New(extOpts...),
		config:    cfg,
	}, nil
}

// Scan fetches a single URL and extracts its recipe.
func (s *Scanner) Scan(ctx context.Context, url string) (*Result, error) {
	fetchStart := time.Now()
	content, err := s.fetcher.Fetch(ctx, url)
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	logger.Debug("page fetched",
		"url", content.URL,
		"fetcher", s.fetcher.Type(),
		"duration", fetchDuration)

	result, err := s.ScanHTML(content.HTML, url)
	if err != nil {
		return nil, err
	}
	result.FetchedAt = content.FetchedAt
	result.FetchDuration = fetchDuration
	return result, nil
}

// ScanHTML extracts the recipe from already-fetched HTML. sourceURL fills
// the recipe URL when the page does not declare one.
func (s *Scanner) ScanHTML(html, sourceURL string) (*Result, error) {
	res, err := s.extractor.ExtractHTML(html, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	r := res.Recipe
	return &Result{
		URL:             sourceURL,
		FetchedAt:       r.DateCreated,
		Recipe:          &r,
		Warnings:        res.Warnings,
		Method:          res.Method,
		PageTitle:       res.PageTitle,
		ExtractDuration: res.Duration,
	}, nil
}

// ScanMany scans multiple URLs concurrently. Failed scans are delivered
// with Error set. A concurrency below 1 uses the configured default.
func (s *Scanner) ScanMany(ctx context.Context, urls []string, concurrency int) <-chan *Result {
	if concurrency < 1 {
		concurrency = s.config.Concurrency
	}

	results := make(chan *Result, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, url := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.Scan(ctx, u)
			if err != nil {
				results <- &Result{URL: u, Warnings: recipe.Warnings{}, Error: err}
				return
			}
			results <- result
		}(url)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Fetch retrieves a page without extracting from it, for callers that need
// the raw HTML (link discovery on listing pages).
func (s *Scanner) Fetch(ctx context.Context, url string) (fetcher.Content, error) {
	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return content, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return content, nil
}

// Close releases all resources.
func (s *Scanner) Close() error {
	if s.fetcher != nil {
		return s.fetcher.Close()
	}
	return nil
}

// Detectors returns the names of the detectors in priority order.
func (s *Scanner) Detectors() []string {
	var names []string
	for _, d := range s.extractor.Detectors() {
		names = append(names, d.Name())
	}
	return names
}
