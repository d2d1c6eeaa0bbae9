// Package normalize coerces raw detector values into canonical recipe fields.
//
// Every function is total: an unexpected shape yields the field's safe
// default (empty string, empty list, zero yield) rather than an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/value"
)

var (
	stringKeys = []string{"text", "name", "@value", "@id"}
	imageKeys  = []string{"url", "contentUrl", "@id", "thumbnail", "src"}
	digitRun   = regexp.MustCompile(`\d+`)
)

// String resolves v to a trimmed string. Text is used as-is, a list resolves
// to its first element, and a map is probed for text, name, @value and @id.
// Anything else resolves to "".
func String(v value.Value) string {
	switch v.Kind() {
	case value.KindText:
		s, _ := v.AsText()
		return strings.TrimSpace(s)
	case value.KindList:
		items := v.Items()
		if len(items) == 0 {
			return ""
		}
		return String(items[0])
	case value.KindMap:
		for _, k := range stringKeys {
			if s := String(v.Get(k)); s != "" {
				return s
			}
		}
	}
	return ""
}

// Image resolves v to an image URL. Maps are probed for url, contentUrl,
// @id, thumbnail, src and finally image.url.
func Image(v value.Value) string {
	switch v.Kind() {
	case value.KindText:
		return String(v)
	case value.KindList:
		items := v.Items()
		if len(items) == 0 {
			return ""
		}
		return Image(items[0])
	case value.KindMap:
		for _, k := range imageKeys {
			if s := String(v.Get(k)); s != "" {
				return s
			}
		}
		return String(v.Path("image", "url"))
	}
	return ""
}

// Duration resolves a time field. It returns nil when the field is absent or
// empty.
func Duration(v value.Value) *string {
	s := String(v)
	if s == "" {
		return nil
	}
	return &s
}

// Ingredients resolves the ingredient list. Lists keep their text entries
// (or each entry's "text" sub-field); a single string is split on line
// breaks.
func Ingredients(v value.Value) []string {
	switch v.Kind() {
	case value.KindList:
		out := []string{}
		for _, item := range v.Items() {
			var s string
			switch item.Kind() {
			case value.KindText:
				s = String(item)
			case value.KindMap:
				s = String(item.Get("text"))
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case value.KindText:
		return splitLines(v)
	}
	return []string{}
}

// Instructions resolves the instruction list, flattening HowToSection
// groupings into a single sequence of steps. A lone mapping counts only
// when it carries an itemListElement list.
func Instructions(v value.Value) []string {
	switch v.Kind() {
	case value.KindList:
		out := []string{}
		for _, item := range v.Items() {
			out = appendSteps(out, item)
		}
		return out
	case value.KindMap:
		if v.Get("itemListElement").IsList() {
			return appendSteps([]string{}, v)
		}
	case value.KindText:
		return splitLines(v)
	}
	return []string{}
}

// appendSteps appends the steps held by entry: a plain string, a section
// with an itemListElement list, or a single step object.
func appendSteps(out []string, entry value.Value) []string {
	switch entry.Kind() {
	case value.KindText:
		if s := String(entry); s != "" {
			out = append(out, s)
		}
	case value.KindMap:
		if steps := entry.Get("itemListElement"); steps.IsList() {
			for _, step := range steps.Items() {
				if s := stepText(step); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
		if s := stepText(entry); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stepText(step value.Value) string {
	if step.Kind() == value.KindText {
		return String(step)
	}
	if s := String(step.Get("text")); s != "" {
		return s
	}
	return String(step.Get("name"))
}

// Keywords resolves a keyword list from a list of strings or a
// comma-separated string.
func Keywords(v value.Value) []string {
	out := []string{}
	switch v.Kind() {
	case value.KindList:
		for _, item := range v.Items() {
			if item.Kind() != value.KindText {
				continue
			}
			if s := String(item); s != "" {
				out = append(out, s)
			}
		}
	case value.KindText:
		s, _ := v.AsText()
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Author resolves an author name from a string, the first list element or a
// Person-like map's name.
func Author(v value.Value) string {
	switch v.Kind() {
	case value.KindText:
		return String(v)
	case value.KindList:
		items := v.Items()
		if len(items) == 0 {
			return ""
		}
		return Author(items[0])
	case value.KindMap:
		return String(v.Get("name"))
	}
	return ""
}

// Yield resolves a serving count and the original free text.
//
// Numbers yield their integer part and no text. Strings yield the first
// digit run found anywhere in them (0 when none) together with the trimmed
// string, which may be empty. Lists resolve through their first element.
// Counts that are negative, non-finite or above math.MaxInt32 become 0.
func Yield(v value.Value) (int, *string) {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		return servings(n), nil
	case value.KindText:
		s := String(v)
		count := 0
		if run := digitRun.FindString(s); run != "" {
			if n, err := strconv.ParseFloat(run, 64); err == nil {
				count = servings(n)
			}
		}
		return count, &s
	case value.KindList:
		items := v.Items()
		if len(items) == 0 {
			return 0, nil
		}
		return Yield(items[0])
	}
	return 0, nil
}

func servings(n float64) int {
	if math.IsNaN(n) || n < 0 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Nutrition keeps the string-valued entries of a NutritionInformation-like
// map. It returns nil when v is absent and an empty map for any other
// non-map shape.
func Nutrition(v value.Value) map[string]string {
	if v.IsAbsent() {
		return nil
	}
	out := map[string]string{}
	if !v.IsMap() {
		return out
	}
	for _, k := range v.Keys() {
		if strings.HasPrefix(k, "@") {
			continue
		}
		s, ok := v.Get(k).AsText()
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out[k] = s
		}
	}
	return out
}

// Tools resolves a tool list from strings, HowToTool-like maps or a single
// string.
func Tools(v value.Value) []string {
	out := []string{}
	switch v.Kind() {
	case value.KindList:
		for _, item := range v.Items() {
			var s string
			switch item.Kind() {
			case value.KindText:
				s = String(item)
			case value.KindMap:
				s = String(item.Get("name"))
				if s == "" {
					s = String(item.Get("text"))
				}
			}
			if s != "" {
				out = append(out, s)
			}
		}
	case value.KindText:
		if s := String(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitLines(v value.Value) []string {
	s, _ := v.AsText()
	out := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Record normalizes every slot of raw into a canonical recipe. Dates and ID
// are left for the caller.
func Record(raw *recipe.Raw) recipe.Recipe {
	yield, yieldText := Yield(raw.Yield)
	return recipe.Recipe{
		Name:         String(raw.Name),
		Description:  String(raw.Description),
		ImageURL:     Image(raw.Image),
		PrepTime:     Duration(raw.PrepTime),
		CookTime:     Duration(raw.CookTime),
		TotalTime:    Duration(raw.TotalTime),
		Yield:        yield,
		YieldText:    yieldText,
		Category:     String(raw.Category),
		Cuisine:      String(raw.Cuisine),
		Author:       Author(raw.Author),
		Keywords:     Keywords(raw.Keywords),
		Nutrition:    Nutrition(raw.Nutrition),
		Tools:        Tools(raw.Tools),
		Ingredients:  Ingredients(raw.Ingredients),
		Instructions: Instructions(raw.Instructions),
		URL:          String(raw.URL),
	}
}
