package extractor

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/detector"
	"github.com/jmylchreest/recipescan/pkg/normalize"
	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// ErrNoRecipeFound is returned when no detector yields a recipe with a name.
var ErrNoRecipeFound = errors.New("no recipe found")

// Extract tries each detector in order. The first raw record that
// normalizes to a named recipe wins; records without a name are rejected
// and the next detector is tried.
func (e *Extractor) Extract(doc *detector.Document, sourceURL string) (*Result, error) {
	start := e.clock()

	for _, d := range e.detectors {
		raw, ok := d.Detect(doc)
		if !ok {
			logger.Debug("detector found nothing", "detector", d.Name())
			continue
		}

		r := normalize.Record(raw)
		if r.Name == "" {
			logger.Debug("detector match rejected, empty name", "detector", d.Name())
			continue
		}

		if e.polisher != nil {
			if err := e.polisher.Polish(&r); err != nil {
				return nil, fmt.Errorf("polish %s recipe: %w", d.Name(), err)
			}
			r = r.WithPlaceholderName()
		}

		if r.URL == "" {
			r.URL = sourceURL
		}
		now := e.clock()
		r.DateCreated = now
		r.DateModified = now

		warnings := recipe.ComputeWarnings(&r)
		logger.Debug("recipe extracted",
			"detector", d.Name(),
			"name", r.Name,
			"warnings", warnings.Strings())

		return &Result{
			Recipe:    r,
			Warnings:  warnings,
			Method:    d.Method(),
			Detector:  d.Name(),
			PageTitle: doc.Title(),
			Duration:  now.Sub(start),
		}, nil
	}

	logger.Debug("no recipe found", "url", sourceURL, "title", doc.Title())
	return nil, ErrNoRecipeFound
}
