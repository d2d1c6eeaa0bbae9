// Package recipe defines the raw and canonical recipe records shared by the
// detectors, the normalizer and the extractor.
package recipe

import (
	"time"

	"github.com/jmylchreest/recipescan/pkg/value"
)

// PlaceholderName is the fixed name callers show when a recipe has no name.
const PlaceholderName = "Untitled Recipe"

// Raw is the loosely-shaped record a detector produces. Every slot is
// optional; an absent slot is distinct from an empty text value.
type Raw struct {
	Name         value.Value
	Description  value.Value
	Image        value.Value
	PrepTime     value.Value
	CookTime     value.Value
	TotalTime    value.Value
	Yield        value.Value
	Ingredients  value.Value
	Instructions value.Value
	Category     value.Value
	Cuisine      value.Value
	Keywords     value.Value
	Nutrition    value.Value
	Author       value.Value
	URL          value.Value
	DateCreated  value.Value
	DateModified value.Value
	Tools        value.Value
}

// Recipe is the canonical, caller-facing record.
type Recipe struct {
	// ID is assigned by whoever persists the recipe and is never set here.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ImageURL    string `json:"image_url" yaml:"image_url"`

	// Times are ISO-8601 durations when the page provided one; nil when absent.
	PrepTime  *string `json:"prep_time,omitempty" yaml:"prep_time,omitempty"`
	CookTime  *string `json:"cook_time,omitempty" yaml:"cook_time,omitempty"`
	TotalTime *string `json:"total_time,omitempty" yaml:"total_time,omitempty"`

	Yield     int     `json:"yield" yaml:"yield"`
	YieldText *string `json:"yield_text,omitempty" yaml:"yield_text,omitempty"`

	Category string `json:"category" yaml:"category"`
	Cuisine  string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty"`

	Keywords []string `json:"keywords" yaml:"keywords"`

	// Nutrition is nil when the page had no nutrition element and empty when
	// it had one without usable entries.
	Nutrition map[string]string `json:"nutrition,omitempty" yaml:"nutrition,omitempty"`

	Tools        []string `json:"tools" yaml:"tools"`
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Instructions []string `json:"instructions" yaml:"instructions"`

	URL          string    `json:"url" yaml:"url"`
	DateCreated  time.Time `json:"date_created" yaml:"date_created"`
	DateModified time.Time `json:"date_modified" yaml:"date_modified"`
}

// WithPlaceholderName returns a copy of r named PlaceholderName when r has
// no name.
func (r Recipe) WithPlaceholderName() Recipe {
	if r.Name == "" {
		r.Name = PlaceholderName
	}
	return r
}

// HasTimes reports whether any of the prep, cook or total times is present.
func (r *Recipe) HasTimes() bool {
	return r.PrepTime != nil || r.CookTime != nil || r.TotalTime != nil
}
