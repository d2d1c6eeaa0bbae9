// Package extractor turns an HTML document into a canonical recipe by running
// the detectors in priority order and normalizing the first usable match.
package extractor

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/recipescan/pkg/cleaner"
	"github.com/jmylchreest/recipescan/pkg/detector"
	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// Result holds the outcome of a successful extraction.
type Result struct {
	// Recipe is the normalized recipe.
	Recipe recipe.Recipe

	// Warnings lists the canonical fields that could not be populated, in
	// fixed order. Never nil.
	Warnings recipe.Warnings

	// Method is the tag of the detection strategy that produced Recipe.
	Method recipe.Method

	// Detector is the name of the detector that produced Recipe.
	Detector string

	// PageTitle is the document's <title> text.
	PageTitle string

	// Duration is the time spent detecting and normalizing.
	Duration time.Duration
}

// Extractor runs a fixed, ordered set of detectors against documents.
// It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	detectors []detector.Detector
	clock     func() time.Time
	polisher  *cleaner.Polisher
}

// New creates an extractor. Without options it uses detector.Default(),
// the wall clock and no polishing.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		detectors: detector.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractHTML parses html and extracts a recipe from it.
func (e *Extractor) ExtractHTML(html, sourceURL string) (*Result, error) {
	doc, err := detector.ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return e.Extract(doc, sourceURL)
}

// Name returns the detector chain name.
func (e *Extractor) Name() string {
	var names []string
	for _, d := range e.detectors {
		names = append(names, d.Name())
	}
	return "detectors(" + strings.Join(names, "->") + ")"
}

// Detectors returns the detectors in the order they are tried.
func (e *Extractor) Detectors() []detector.Detector {
	out := make([]detector.Detector, len(e.detectors))
	copy(out, e.detectors)
	return out
}

// MethodForDetector maps a built-in detector name to its method tag. Unknown
// names report false rather than defaulting to a tag.
func MethodForDetector(name string) (recipe.Method, bool) {
	switch name {
	case "jsonld":
		return recipe.MethodJSONLD, true
	case "nextjs":
		return recipe.MethodNextJS, true
	case "microdata":
		return recipe.MethodMicrodata, true
	}
	return "", false
}
