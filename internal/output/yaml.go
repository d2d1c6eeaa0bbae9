package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// YAMLWriter buffers results and writes them as one YAML document.
type YAMLWriter struct {
	w     *bufio.Writer
	cfg   *writerConfig
	items []any
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer, cfg *writerConfig) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		cfg:   cfg,
		items: make([]any, 0),
	}
}

// Write buffers a single result.
func (w *YAMLWriter) Write(result *recipescan.Result) error {
	w.items = append(w.items, w.cfg.payload(result))
	return nil
}

// Flush writes the buffered results as YAML.
func (w *YAMLWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	}
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	w.items = w.items[:0]
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
