package extractor

import (
	"time"

	"github.com/jmylchreest/recipescan/pkg/cleaner"
	"github.com/jmylchreest/recipescan/pkg/detector"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithDetectors replaces the detector chain. Detectors are tried in the
// order given.
func WithDetectors(detectors ...detector.Detector) Option {
	return func(e *Extractor) {
		e.detectors = detectors
	}
}

// WithClock sets the clock used to stamp DateCreated and DateModified.
func WithClock(clock func() time.Time) Option {
	return func(e *Extractor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithPolish cleans leftover markup, entities and step numbering from the
// extracted text fields. A nil polisher disables polishing.
func WithPolish(p *cleaner.Polisher) Option {
	return func(e *Extractor) {
		e.polisher = p
	}
}
