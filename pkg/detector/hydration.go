package detector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/value"
)

// hydrationPaths are the places Next.js recipe sites usually keep the recipe
// object, most specific first.
var hydrationPaths = []string{
	"props.pageProps.recipe",
	"props.pageProps.data.recipe",
	"props.pageProps.initialData.recipe",
	"props.pageProps.content.recipe",
	"props.pageProps.recipeData",
	"props.pageProps.data",
	"props.pageProps",
}

// recipeIndicators mark an object found by the fallback walk as recipe data
// rather than, say, a navigation entry that happens to have a title.
var recipeIndicators = []string{
	"recipeIngredient", "ingredients",
	"recipeInstructions", "instructions",
	"prepTime", "cookTime", "totalTime",
	"recipeYield", "yield", "servings",
	"recipeDetails", "recipeParts",
}

var (
	isoDuration = regexp.MustCompile(`^P(\d+[YMWD])*(T(\d+(\.\d+)?[HMS])+)?$`)
	hoursText   = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?|h)(?:[^a-z]|$)`)
	minutesText = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?|m)(?:[^a-z]|$)`)
)

// Hydration detects recipes in the __NEXT_DATA__ payload of Next.js pages.
type Hydration struct {
	paths []string
}

// NewHydration creates a hydration payload detector.
func NewHydration() *Hydration {
	return &Hydration{paths: hydrationPaths}
}

// Name returns the detector identifier.
func (d *Hydration) Name() string { return "nextjs" }

// Method returns the detection method tag.
func (d *Hydration) Method() recipe.Method { return recipe.MethodNextJS }

// Detect parses the hydration payload and converts the first recipe-like
// object it finds.
func (d *Hydration) Detect(doc *Document) (*recipe.Raw, bool) {
	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return nil, false
	}

	body := script.Text()
	if !gjson.Valid(body) {
		logger.Debug("hydration payload is not valid JSON")
		return nil, false
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, false
	}

	for _, path := range d.paths {
		node := value.FromJSON(root.Get(path))
		if node.IsMap() && (node.Has("name") || node.Has("title")) {
			logger.Debug("hydration recipe found at path", "path", path)
			return hydrationRecord(node), true
		}
	}

	if node, ok := findRecipeLike(value.FromJSON(root)); ok {
		logger.Debug("hydration recipe found by traversal")
		return hydrationRecord(node), true
	}

	return nil, false
}

// findRecipeLike walks the tree in pre-order with an explicit stack and
// returns the first object that has a name or title and at least one recipe
// indicator key.
func findRecipeLike(root value.Value) (value.Value, bool) {
	stack := []value.Value{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur.Kind() {
		case value.KindMap:
			if isRecipeLike(cur) {
				return cur, true
			}
			keys := cur.Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, cur.Get(keys[i]))
			}
		case value.KindList:
			items := cur.Items()
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, items[i])
			}
		}
	}
	return value.Value{}, false
}

func isRecipeLike(v value.Value) bool {
	if !v.Has("name") && !v.Has("title") {
		return false
	}
	for _, k := range recipeIndicators {
		if v.Has(k) {
			return true
		}
	}
	return false
}

func hydrationRecord(node value.Value) *recipe.Raw {
	details := node.Get("recipeDetails")
	lookup := func(keys ...string) value.Value {
		if v := node.First(keys...); !v.IsAbsent() {
			return v
		}
		return details.First(keys...)
	}

	raw := &recipe.Raw{
		Name:         node.First("name", "title"),
		Description:  hydrationDescription(node.Get("description")),
		Image:        hydrationImage(node.First("image", "images")),
		PrepTime:     hydrationTime(lookup("prepTime")),
		CookTime:     hydrationTime(lookup("cookTime")),
		TotalTime:    hydrationTime(lookup("totalTime")),
		Yield:        lookup("recipeYield", "yield", "servings"),
		Ingredients:  node.First("recipeIngredient", "ingredients"),
		Instructions: node.First("recipeInstructions", "instructions"),
		Category:     lookup("recipeCategory", "category"),
		Cuisine:      lookup("recipeCuisine", "cuisine"),
		Keywords:     node.First("keywords", "tags"),
		Nutrition:    lookup("nutrition"),
		Author:       node.Get("author"),
		URL:          node.First("url", "canonicalUrl"),
		Tools:        node.First("tools", "tool"),
	}

	parts := node.Get("recipeParts")
	if parts.IsAbsent() {
		parts = details.Get("recipeParts")
	}
	if raw.Ingredients.IsAbsent() {
		if ings := partIngredients(parts); len(ings) > 0 {
			raw.Ingredients = value.List(ings...)
		}
	}
	if raw.Instructions.IsAbsent() {
		if steps := partDirections(parts); len(steps) > 0 {
			raw.Instructions = value.List(steps...)
		}
	}

	return raw
}

// hydrationDescription flattens rich-text block lists into plain text.
// Plain strings and other shapes pass through for the normalizer.
func hydrationDescription(v value.Value) value.Value {
	if !v.IsList() {
		return v
	}
	var runs []string
	for _, block := range v.Items() {
		runs = append(runs, textRuns(block)...)
	}
	if len(runs) == 0 {
		return value.Value{}
	}
	return value.Text(strings.Join(runs, "\n\n"))
}

// textRuns collects the "text" strings of a rich-text node and its nested
// children, in document order.
func textRuns(root value.Value) []string {
	var runs []string
	stack := []value.Value{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur.Kind() {
		case value.KindText:
			if s, _ := cur.AsText(); strings.TrimSpace(s) != "" {
				runs = append(runs, s)
			}
		case value.KindMap:
			if s, ok := cur.Get("text").AsText(); ok && strings.TrimSpace(s) != "" {
				runs = append(runs, s)
			}
			children := cur.Get("children").Items()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		case value.KindList:
			items := cur.Items()
			for i := len(items) - 1; i >= 0; i-- {
				stack = append(stack, items[i])
			}
		}
	}
	return runs
}

// hydrationImage resolves images to a URL string: lists use their first
// element, objects try url, asset.url and src.
func hydrationImage(v value.Value) value.Value {
	for v.IsList() {
		items := v.Items()
		if len(items) == 0 {
			return value.Value{}
		}
		v = items[0]
	}
	if !v.IsMap() {
		return v
	}
	for _, candidate := range []value.Value{v.Get("url"), v.Path("asset", "url"), v.Get("src")} {
		if s, ok := candidate.AsText(); ok && strings.TrimSpace(s) != "" {
			return candidate
		}
	}
	return value.Value{}
}

func hydrationTime(v value.Value) value.Value {
	s, ok := v.AsText()
	if !ok {
		return v
	}
	return value.Text(toISODuration(s))
}

// toISODuration converts free text such as "1 hour 30 minutes" to
// "PT1H30M". ISO-8601 input and text without hours or minutes is returned
// unchanged.
func toISODuration(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "P" || isoDuration.MatchString(trimmed) {
		return s
	}

	hours := firstInt(hoursText, trimmed)
	minutes := firstInt(minutesText, trimmed)
	if hours == 0 && minutes == 0 {
		return s
	}

	var sb strings.Builder
	sb.WriteString("PT")
	if hours > 0 {
		sb.WriteString(strconv.Itoa(hours))
		sb.WriteString("H")
	}
	if minutes > 0 {
		sb.WriteString(strconv.Itoa(minutes))
		sb.WriteString("M")
	}
	return sb.String()
}

func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// partItems returns the parts of a vendor recipeParts list, unwrapping
// {"recipePart": {...}} envelopes.
func partItems(parts value.Value) []value.Value {
	var out []value.Value
	for _, p := range parts.Items() {
		if inner := p.Get("recipePart"); inner.IsMap() {
			p = inner
		}
		out = append(out, p)
	}
	return out
}

// partIngredients joins amount, unit and name of every vendor ingredient
// entry. Entries without a name are dropped.
func partIngredients(parts value.Value) []value.Value {
	var out []value.Value
	for _, p := range partItems(parts) {
		for _, ing := range p.Get("ingredients").Items() {
			if inner := ing.Get("ingredient"); inner.IsMap() {
				ing = inner
			}
			name := scalarText(ing.Get("name"))
			if name == "" {
				continue
			}
			var fields []string
			if amount := scalarText(ing.Get("amount")); amount != "" {
				fields = append(fields, amount)
			}
			if unit := scalarText(ing.Get("unit")); unit != "" {
				fields = append(fields, unit)
			}
			fields = append(fields, name)
			out = append(out, value.Text(strings.Join(fields, " ")))
		}
	}
	return out
}

// partDirections flattens vendor direction entries, one step per entry.
func partDirections(parts value.Value) []value.Value {
	var out []value.Value
	for _, p := range partItems(parts) {
		for _, dir := range p.Get("directions").Items() {
			var text string
			if s, ok := dir.AsText(); ok {
				text = s
			} else {
				text = strings.Join(textRuns(dir), "")
			}
			if text = strings.TrimSpace(text); text != "" {
				out = append(out, value.Text(text))
			}
		}
	}
	return out
}

// scalarText renders text and numbers; anything else is "".
func scalarText(v value.Value) string {
	if s, ok := v.AsText(); ok {
		return strings.TrimSpace(s)
	}
	if n, ok := v.AsNumber(); ok {
		return value.FormatNumber(n)
	}
	return ""
}
