// Package output serializes scan results for the CLI.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatText  Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML, FormatText}

// Writer handles result serialization.
type Writer interface {
	// Write outputs a single result.
	Write(result *recipescan.Result) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty   bool
	indent   string
	metadata bool
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithMetadata wraps each recipe with its URL, method and warnings. When
// disabled only the recipe is written.
func WithMetadata(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.metadata = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty:   true,
		indent:   "  ",
		metadata: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg), nil
	case FormatJSONL:
		return NewJSONLWriter(w, cfg), nil
	case FormatYAML:
		return NewYAMLWriter(w, cfg), nil
	case FormatText:
		return NewTextWriter(w), nil
	default:
		names := make([]string, len(Formats))
		for i, f := range Formats {
			names[i] = string(f)
		}
		return nil, fmt.Errorf("unsupported output format: %s (use %s)", format, strings.Join(names, ", "))
	}
}

// payload returns the value serialized for result.
func (c *writerConfig) payload(result *recipescan.Result) any {
	if c.metadata || result.Recipe == nil {
		return result
	}
	return result.Recipe
}
