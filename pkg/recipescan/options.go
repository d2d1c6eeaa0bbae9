package recipescan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/recipescan/pkg/cleaner"
	"github.com/jmylchreest/recipescan/pkg/detector"
	"github.com/jmylchreest/recipescan/pkg/fetcher"
)

// ErrInvalidConfig is returned by New when the configuration fails
// validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all recipescan configuration.
type Config struct {
	// Fetch settings
	FetchMode   fetcher.Mode  `validate:"oneof=static dynamic"`
	UserAgent   string
	Timeout     time.Duration `validate:"gt=0"`
	MaxBodySize int           `validate:"gte=0"`

	// Concurrency is the default fan-out for ScanMany.
	Concurrency int `validate:"gte=1"`

	// Polish selects how leftover markup and step numbering are cleaned
	// from extracted text.
	Polish cleaner.Mode `validate:"omitempty,oneof=off text steps full"`

	// Clock stamps extracted recipes. Defaults to time.Now.
	Clock func() time.Time

	// Fetcher replaces the fetcher built from FetchMode.
	Fetcher fetcher.Fetcher

	// Detectors replaces the default detector chain.
	Detectors []detector.Detector
}

// Chrome user agent for better compatibility with bot-protected sites
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FetchMode:   fetcher.ModeStatic,
		Polish:      cleaner.ModeOff,
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: fetcher.DefaultMaxBodySize,
		Concurrency: 3,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Field()+" "+formatValidationError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// Option configures recipescan.
type Option func(*Config)

// WithFetchMode sets the fetch mode (static, dynamic).
func WithFetchMode(mode fetcher.Mode) Option {
	return func(c *Config) {
		c.FetchMode = mode
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize limits fetched response bodies, in bytes (0 = unlimited).
func WithMaxBodySize(n int) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithConcurrency sets the default number of concurrent scans.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

// WithPolish sets the polish mode (off, text, steps, full).
func WithPolish(mode cleaner.Mode) Option {
	return func(c *Config) {
		c.Polish = mode
	}
}

// WithClock sets the clock used to stamp recipe dates.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithFetcher injects a fetcher, overriding FetchMode.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithDetectors replaces the default detector chain.
func WithDetectors(detectors ...detector.Detector) Option {
	return func(c *Config) {
		c.Detectors = detectors
	}
}
