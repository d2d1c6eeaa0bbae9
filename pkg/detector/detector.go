// Package detector finds recipe data embedded in HTML documents.
//
// Three strategies are provided, each recognising one convention sites use
// to publish recipes: JSON-LD scripts, Next.js hydration payloads and HTML5
// microdata. A detector only finds and reshapes data; it never decides
// whether the result is a usable recipe. That is the extractor's job.
package detector

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// Detector abstracts a recipe detection strategy.
type Detector interface {
	// Detect scans doc and returns the raw record it found, if any.
	Detect(doc *Document) (*recipe.Raw, bool)

	// Name returns a stable identifier for the strategy.
	Name() string

	// Method returns the detection method tag reported with results.
	Method() recipe.Method
}

// Default returns the built-in detectors in priority order.
func Default() []Detector {
	return []Detector{
		NewLinkedData(),
		NewHydration(),
		NewMicrodata(),
	}
}

// Document is a parsed HTML page. It is read-only once built and may be
// shared between goroutines.
type Document struct {
	doc *goquery.Document
}

// NewDocument wraps an already-parsed goquery document.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{doc: doc}
}

// ParseHTML parses an HTML string.
func ParseHTML(html string) (*Document, error) {
	return ParseReader(strings.NewReader(html))
}

// ParseReader parses HTML from r.
func ParseReader(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Title returns the trimmed <title> text.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}
