package detector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/value"
)

// nutritionProperties is the whitelist of NutritionInformation properties
// read from microdata.
var nutritionProperties = []string{
	"calories",
	"fatContent",
	"saturatedFatContent",
	"unsaturatedFatContent",
	"transFatContent",
	"carbohydrateContent",
	"sugarContent",
	"fiberContent",
	"proteinContent",
	"sodiumContent",
	"cholesterolContent",
	"servingSize",
}

// Microdata detects recipes annotated with itemscope/itemtype/itemprop.
type Microdata struct{}

// NewMicrodata creates a microdata detector.
func NewMicrodata() *Microdata {
	return &Microdata{}
}

// Name returns the detector identifier.
func (d *Microdata) Name() string { return "microdata" }

// Method returns the detection method tag.
func (d *Microdata) Method() recipe.Method { return recipe.MethodMicrodata }

// Detect reads the first schema.org/Recipe item in the document.
func (d *Microdata) Detect(doc *Document) (*recipe.Raw, bool) {
	root := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
	if root.Length() == 0 {
		return nil, false
	}

	name := prop(root, "name")
	if name.Length() == 0 {
		logger.Debug("microdata recipe has no name property")
		return nil, false
	}

	raw := &recipe.Raw{
		Name:         elementValue(name),
		Description:  scalarProp(root, "description"),
		Image:        imageProp(root),
		PrepTime:     scalarProp(root, "prepTime"),
		CookTime:     scalarProp(root, "cookTime"),
		TotalTime:    scalarProp(root, "totalTime"),
		Yield:        scalarProp(root, "recipeYield", "yield"),
		Ingredients:  multiProp(root, "recipeIngredient", "ingredients"),
		Instructions: microdataInstructions(root),
		Category:     scalarProp(root, "recipeCategory"),
		Cuisine:      scalarProp(root, "recipeCuisine"),
		Keywords:     scalarProp(root, "keywords"),
		Nutrition:    microdataNutrition(root),
		Author:       microdataAuthor(root),
		URL:          scalarProp(root, "url"),
		DateCreated:  scalarProp(root, "dateCreated", "datePublished"),
		DateModified: scalarProp(root, "dateModified"),
		Tools:        multiProp(root, "tool"),
	}

	return raw, true
}

// props returns the elements under scope carrying itemprop name. Properties
// that belong to scope itself are preferred over those of nested items
// (an author's name must not become the recipe's name); when scope has
// none of its own, any descendant is accepted.
func props(scope *goquery.Selection, name string) *goquery.Selection {
	all := scope.Find(`[itemprop~="` + name + `"]`)
	if all.Length() == 0 {
		return all
	}
	own := all.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return ownedBy(s, scope)
	})
	if own.Length() > 0 {
		return own
	}
	return all
}

func prop(scope *goquery.Selection, name string) *goquery.Selection {
	return props(scope, name).First()
}

// ownedBy reports whether the nearest enclosing item of s is scope.
func ownedBy(s, scope *goquery.Selection) bool {
	owner := s.ParentsFiltered("[itemscope], [itemtype]").First()
	return owner.Length() > 0 && owner.Get(0) == scope.Get(0)
}

// elementValue extracts a property value the way microdata defines it for
// each element kind.
func elementValue(s *goquery.Selection) value.Value {
	attr := func(name string) (string, bool) {
		v, ok := s.Attr(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	switch goquery.NodeName(s) {
	case "meta":
		v, _ := attr("content")
		return value.Text(v)
	case "img", "audio", "video", "source", "embed", "iframe", "track":
		v, _ := attr("src")
		return value.Text(v)
	case "a", "link", "area":
		v, _ := attr("href")
		return value.Text(v)
	case "time":
		if v, ok := attr("datetime"); ok {
			return value.Text(v)
		}
		return value.Text(elementText(s))
	case "data", "meter":
		v, _ := attr("value")
		return value.Text(v)
	}

	if v, ok := attr("content"); ok {
		return value.Text(v)
	}
	return value.Text(elementText(s))
}

func elementText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// scalarProp returns the value of the first property found among names.
func scalarProp(scope *goquery.Selection, names ...string) value.Value {
	for _, name := range names {
		if el := prop(scope, name); el.Length() > 0 {
			return elementValue(el)
		}
	}
	return value.Value{}
}

// multiProp returns the values of every element carrying the first of names
// that is present.
func multiProp(scope *goquery.Selection, names ...string) value.Value {
	for _, name := range names {
		els := props(scope, name)
		if els.Length() == 0 {
			continue
		}
		var items []value.Value
		els.Each(func(_ int, s *goquery.Selection) {
			if v := elementValue(s); !isBlank(v) {
				items = append(items, v)
			}
		})
		return value.List(items...)
	}
	return value.Value{}
}

func imageProp(root *goquery.Selection) value.Value {
	el := prop(root, "image")
	if el.Length() == 0 {
		return value.Value{}
	}
	if _, nested := el.Attr("itemscope"); nested {
		if u := prop(el, "url"); u.Length() > 0 {
			return elementValue(u)
		}
		if u := prop(el, "contentUrl"); u.Length() > 0 {
			return elementValue(u)
		}
	}
	return elementValue(el)
}

// microdataInstructions prefers typed HowToStep items, then sections holding
// untyped steps, then plain recipeInstructions properties.
func microdataInstructions(root *goquery.Selection) value.Value {
	if steps := root.Find(`[itemtype*="HowToStep"]`); steps.Length() > 0 {
		return value.List(stepValues(steps)...)
	}

	if sections := root.Find(`[itemtype*="HowToSection"]`); sections.Length() > 0 {
		var items []value.Value
		sections.Each(func(_ int, sec *goquery.Selection) {
			items = append(items, stepValues(props(sec, "itemListElement"))...)
		})
		if len(items) > 0 {
			return value.List(items...)
		}
	}

	els := props(root, "recipeInstructions")
	if els.Length() == 0 {
		els = props(root, "instructions")
	}
	if els.Length() == 1 {
		// A single container often wraps an ordered list of steps.
		if lis := els.Find("li"); lis.Length() > 0 {
			return value.List(stepValues(lis)...)
		}
	}
	var items []value.Value
	els.Each(func(_ int, s *goquery.Selection) {
		if v := elementValue(s); !isBlank(v) {
			items = append(items, v)
		}
	})
	if len(items) == 0 {
		return value.Value{}
	}
	return value.List(items...)
}

// stepValues reads each step's text, name or description property, falling
// back to the step's own text.
func stepValues(steps *goquery.Selection) []value.Value {
	var items []value.Value
	steps.Each(func(_ int, step *goquery.Selection) {
		v := scalarProp(step, "text", "name", "description")
		if isBlank(v) {
			v = value.Text(elementText(step))
		}
		if !isBlank(v) {
			items = append(items, v)
		}
	})
	return items
}

func microdataAuthor(root *goquery.Selection) value.Value {
	el := prop(root, "author")
	if el.Length() == 0 {
		return value.Value{}
	}
	if name := prop(el, "name"); name.Length() > 0 {
		return elementValue(name)
	}
	return elementValue(el)
}

// microdataNutrition reads the whitelisted nutrition properties. The slot
// stays absent when none of them is present.
func microdataNutrition(root *goquery.Selection) value.Value {
	el := root.Find(`[itemtype*="NutritionInformation"]`).First()
	if el.Length() == 0 {
		el = prop(root, "nutrition")
	}
	if el.Length() == 0 {
		return value.Value{}
	}

	m := map[string]value.Value{}
	for _, name := range nutritionProperties {
		p := prop(el, name)
		if p.Length() == 0 {
			continue
		}
		if v := elementValue(p); !isBlank(v) {
			m[name] = v
		}
	}
	if len(m) == 0 {
		return value.Value{}
	}
	return value.Map(m)
}

func isBlank(v value.Value) bool {
	s, ok := v.AsText()
	return v.IsAbsent() || (ok && strings.TrimSpace(s) == "")
}
