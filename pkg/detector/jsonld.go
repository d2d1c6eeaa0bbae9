package detector

import (
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/value"
)

// recipeTypes are the lower-cased @type values accepted as a recipe.
var recipeTypes = map[string]bool{
	"recipe":                    true,
	"schema:recipe":             true,
	"schema.org/recipe":         true,
	"http://schema.org/recipe":  true,
	"https://schema.org/recipe": true,
}

// LinkedData detects recipes published as JSON-LD in
// <script type="application/ld+json"> elements.
type LinkedData struct{}

// NewLinkedData creates a JSON-LD detector.
func NewLinkedData() *LinkedData {
	return &LinkedData{}
}

// Name returns the detector identifier.
func (d *LinkedData) Name() string { return "jsonld" }

// Method returns the detection method tag.
func (d *LinkedData) Method() recipe.Method { return recipe.MethodJSONLD }

// Detect returns the first recipe node found across all JSON-LD scripts in
// document order.
func (d *LinkedData) Detect(doc *Document) (*recipe.Raw, bool) {
	var raw *recipe.Raw

	doc.Find("script[type]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		if !isLinkedDataType(typ) {
			return true
		}

		parsed, ok := parseLinkedData(s.Text())
		if !ok {
			logger.Debug("jsonld script unparseable", "script", i)
			return true
		}

		node, ok := findRecipeNode(parsed)
		if !ok {
			logger.Debug("jsonld script has no recipe node", "script", i)
			return true
		}

		logger.Debug("jsonld recipe node found", "script", i)
		raw = linkedDataRecord(node)
		return false
	})

	return raw, raw != nil
}

func isLinkedDataType(typ string) bool {
	mt, _, err := mime.ParseMediaType(typ)
	if err != nil {
		mt = strings.TrimSpace(typ)
	}
	return strings.EqualFold(mt, "application/ld+json")
}

// parseLinkedData parses a script body, retrying once after repairing the
// mistakes sites commonly make when hand-assembling JSON-LD.
func parseLinkedData(body string) (value.Value, bool) {
	if v, ok := value.Parse(body); ok {
		return v, true
	}
	repaired := repairJSON(body)
	if repaired == body {
		return value.Value{}, false
	}
	v, ok := value.Parse(repaired)
	if ok {
		logger.Debug("jsonld parsed after repair")
	}
	return v, ok
}

// repairJSON escapes raw newline, carriage return and tab characters inside
// string literals and collapses doubled backslashes.
func repairJSON(body string) string {
	var sb strings.Builder
	sb.Grow(len(body) + 16)

	inString := false
	escaped := false
	for _, r := range body {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r == '\n':
				sb.WriteString(`\n`)
				continue
			case r == '\r':
				sb.WriteString(`\r`)
				continue
			case r == '\t':
				sb.WriteString(`\t`)
				continue
			}
		} else if r == '"' {
			inString = true
		}
		sb.WriteRune(r)
	}

	return strings.ReplaceAll(sb.String(), `\\`, `\`)
}

// findRecipeNode looks for a recipe in the parsed value itself, then in the
// elements of a top-level list, then in a top-level @graph.
func findRecipeNode(v value.Value) (value.Value, bool) {
	if isRecipeNode(v) {
		return v, true
	}
	for _, item := range v.Items() {
		if isRecipeNode(item) {
			return item, true
		}
	}
	for _, item := range v.Get("@graph").Items() {
		if isRecipeNode(item) {
			return item, true
		}
	}
	return value.Value{}, false
}

func isRecipeNode(v value.Value) bool {
	if !v.IsMap() {
		return false
	}
	t := v.Get("@type")
	if s, ok := t.AsText(); ok {
		return recipeTypes[strings.ToLower(strings.TrimSpace(s))]
	}
	for _, item := range t.Items() {
		if s, ok := item.AsText(); ok && recipeTypes[strings.ToLower(strings.TrimSpace(s))] {
			return true
		}
	}
	return false
}

// linkedDataRecord maps a schema.org Recipe node onto a raw record, falling
// back through the alias keys sites use in place of the schema.org names.
func linkedDataRecord(node value.Value) *recipe.Raw {
	return &recipe.Raw{
		Name:         node.Get("name"),
		Description:  node.Get("description"),
		Image:        node.Get("image"),
		PrepTime:     node.Get("prepTime"),
		CookTime:     node.Get("cookTime"),
		TotalTime:    node.Get("totalTime"),
		Yield:        node.First("recipeYield", "yield", "servings"),
		Ingredients:  node.First("recipeIngredient", "ingredients", "ingredient"),
		Instructions: node.First("recipeInstructions", "instructions"),
		Category:     node.First("recipeCategory", "category"),
		Cuisine:      node.First("recipeCuisine", "cuisine"),
		Keywords:     node.Get("keywords"),
		Nutrition:    node.Get("nutrition"),
		Author:       node.Get("author"),
		URL:          node.Get("url"),
		DateCreated:  node.First("dateCreated", "datePublished"),
		DateModified: node.Get("dateModified"),
		Tools:        node.First("tools", "tool"),
	}
}
