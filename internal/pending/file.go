package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/recipescan/internal/logger"
)

// DefaultFileName is the file name used inside a shared directory.
const DefaultFileName = "pending-url.json"

// File is a Store backed by a JSON file, typically in a directory shared
// between processes.
type File struct {
	path string
	now  func() time.Time
}

// NewFile creates a file store at path.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// NewFileInDir creates a file store named DefaultFileName inside dir.
func NewFileInDir(dir string) *File {
	return NewFile(filepath.Join(dir, DefaultFileName))
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the pending URL.
func (f *File) Get(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read pending file: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", fmt.Errorf("decode pending file: %w", err)
	}
	if e.URL == "" {
		return "", ErrNotFound
	}
	return e.URL, nil
}

// Set replaces the pending URL. The file is written to a temporary name and
// renamed so readers never see a partial write.
func (f *File) Set(_ context.Context, raw string) error {
	u, err := Validate(raw)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry{URL: u, SetAt: f.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode pending file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create pending dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".pending-*")
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace pending file: %w", err)
	}

	logger.Debug("pending url stored", "path", f.path)
	return nil
}

// Clear removes the pending URL.
func (f *File) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove pending file: %w", err)
	}
	return nil
}
