// Package cleaner polishes text extracted from recipe pages.
//
// Extracted strings frequently carry leftover markup, HTML entities and step
// numbering. The functions here remove them; the Cleaner implementations let
// callers compose them. Cleaning is opt-in and never applied by the
// normalizer itself.
package cleaner

// Cleaner transforms a single extracted string.
type Cleaner interface {
	// Clean returns the cleaned form of s.
	Clean(s string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

// Func adapts an infallible string transform into a named Cleaner.
func Func(name string, fn func(string) string) Cleaner {
	return stage{name: name, fn: fn}
}

type stage struct {
	name string
	fn   func(string) string
}

func (s stage) Clean(in string) (string, error) { return s.fn(in), nil }
func (s stage) Name() string                    { return s.name }

// NewNoop returns a cleaner that leaves its input untouched. A Polisher
// given a noop side leaves those fields verbatim.
func NewNoop() Cleaner {
	return Func("noop", func(s string) string { return s })
}
