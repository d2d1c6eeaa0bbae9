package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// JSONWriter buffers results and writes them as one JSON document.
type JSONWriter struct {
	w     *bufio.Writer
	cfg   *writerConfig
	items []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, cfg *writerConfig) *JSONWriter {
	return &JSONWriter{
		w:     bufio.NewWriter(w),
		cfg:   cfg,
		items: make([]any, 0),
	}
}

// Write buffers a single result.
func (w *JSONWriter) Write(result *recipescan.Result) error {
	w.items = append(w.items, w.cfg.payload(result))
	return nil
}

// Flush writes the buffered results. A single result is written as an
// object, several as an array.
func (w *JSONWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	var doc any = w.items
	if len(w.items) == 1 {
		doc = w.items[0]
	}

	var output []byte
	var err error
	if w.cfg.pretty {
		output, err = json.MarshalIndent(doc, "", w.cfg.indent)
	} else {
		output, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	w.items = w.items[:0]
	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one result per line
// as soon as it arrives.
type JSONLWriter struct {
	w   *bufio.Writer
	cfg *writerConfig
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer, cfg *writerConfig) *JSONLWriter {
	return &JSONLWriter{
		w:   bufio.NewWriter(w),
		cfg: cfg,
	}
}

// Write writes a single result as a JSON line.
func (w *JSONLWriter) Write(result *recipescan.Result) error {
	output, err := json.Marshal(w.cfg.payload(result))
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
