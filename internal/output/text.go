package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/recipescan"
)

// TextWriter renders results as plain-text recipe cards.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write renders a single result.
func (w *TextWriter) Write(result *recipescan.Result) error {
	if w.written > 0 {
		w.w.WriteString("\n---\n\n")
	}
	w.written++

	if result.Recipe == nil {
		fmt.Fprintf(w.w, "%s: no recipe\n", result.URL)
		return w.w.Flush()
	}
	writeCard(w.w, result)
	return w.w.Flush()
}

func writeCard(w *bufio.Writer, result *recipescan.Result) {
	r := result.Recipe

	fmt.Fprintln(w, r.Name)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(r.Name))))
	if r.Description != "" {
		fmt.Fprintf(w, "\n%s\n", r.Description)
	}

	fmt.Fprintln(w)
	field := func(label, v string) {
		if v != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", v)
		}
	}
	field("Source", r.URL)
	field("Author", r.Author)
	field("Category", r.Category)
	field("Cuisine", r.Cuisine)
	field("Prep", deref(r.PrepTime))
	field("Cook", deref(r.CookTime))
	field("Total", deref(r.TotalTime))
	field("Yield", yieldText(r))
	field("Image", r.ImageURL)
	if len(r.Keywords) > 0 {
		field("Keywords", strings.Join(r.Keywords, ", "))
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "  - %s\n", ing)
		}
	}
	if len(r.Instructions) > 0 {
		fmt.Fprintln(w, "\nInstructions")
		for i, step := range r.Instructions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
	if len(r.Tools) > 0 {
		fmt.Fprintln(w, "\nTools")
		for _, tool := range r.Tools {
			fmt.Fprintf(w, "  - %s\n", tool)
		}
	}
	if len(r.Nutrition) > 0 {
		fmt.Fprintln(w, "\nNutrition")
		keys := make([]string, 0, len(r.Nutrition))
		for k := range r.Nutrition {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, r.Nutrition[k])
		}
	}

	fmt.Fprintf(w, "\n[%s]", result.Method)
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, " warnings: %s", strings.Join(result.Warnings.Strings(), ", "))
	}
	fmt.Fprintln(w)
}

func yieldText(r *recipe.Recipe) string {
	if r.YieldText != nil {
		return *r.YieldText
	}
	if r.Yield > 0 {
		return fmt.Sprintf("%d", r.Yield)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
