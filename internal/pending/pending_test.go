package pending

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// storeFactories returns the stores every behavioural test runs against.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	factories := map[string]func() Store{
		"memory": func() Store { return NewMemory() },
		"file":   func() Store { return NewFileInDir(t.TempDir()) },
		"fake redis": func() Store {
			return newRedis(newFakeRedis(), "", 0)
		},
	}
	if addr := os.Getenv("RECIPESCAN_TEST_REDIS"); addr != "" {
		factories["redis"] = func() Store {
			key := DefaultRedisKey + ":test:" + t.Name()
			s, err := NewRedis(context.Background(), RedisConfig{Addr: addr, Key: key})
			if err != nil {
				t.Fatalf("NewRedis() error = %v", err)
			}
			t.Cleanup(func() {
				_ = s.Clear(context.Background())
				_ = s.Close()
			})
			return s
		}
	}
	return factories
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, " https://example.com/recipes/1 "); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != "https://example.com/recipes/1" {
				t.Errorf("Get() = %q", got)
			}

			if err := s.Set(ctx, "https://example.com/recipes/2"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got, _ := s.Get(ctx); got != "https://example.com/recipes/2" {
				t.Errorf("Get() after overwrite = %q", got)
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Clear error = %v, want ErrNotFound", err)
			}
			if err := s.Clear(ctx); err != nil {
				t.Errorf("Clear() on empty store error = %v", err)
			}
		})
	}
}

func TestStore_RejectsInvalidURL(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/relative/path", "https://"} {
				if err := s.Set(ctx, raw); !errors.Is(err, ErrInvalidURL) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidURL", raw, err)
				}
			}
			if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestTake(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if _, err := Take(ctx, s); !errors.Is(err, ErrNotFound) {
		t.Errorf("Take() on empty store error = %v, want ErrNotFound", err)
	}

	_ = s.Set(ctx, "https://example.com/soup")
	got, err := Take(ctx, s)
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if got != "https://example.com/soup" {
		t.Errorf("Take() = %q", got)
	}
	if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("URL still pending after Take: %v", err)
	}
}

func TestFile_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writer := NewFileInDir(dir)
	writer.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	if err := writer.Set(ctx, "https://example.com/shared"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatalf("reading pending file: %v", err)
	}
	if want := `{"url":"https://example.com/shared","set_at":"2024-01-02T03:04:05Z"}`; string(data) != want {
		t.Errorf("file contents = %s, want %s", data, want)
	}

	reader := NewFileInDir(dir)
	if got, err := reader.Get(ctx); err != nil || got != "https://example.com/shared" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the pending file", len(entries))
	}
}

func TestFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewFile(path).Get(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want decode error", err)
	}
}
