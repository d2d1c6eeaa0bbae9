package normalize

import (
	"math"
	"reflect"
	"testing"

	"github.com/jmylchreest/recipescan/pkg/recipe"
	"github.com/jmylchreest/recipescan/pkg/value"
)

func v(x any) value.Value { return value.FromAny(x) }

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  string
	}{
		{"bare string", v("  X "), "X"},
		{"text key", v(map[string]any{"text": "X"}), "X"},
		{"name key", v(map[string]any{"name": "X"}), "X"},
		{"@value key", v(map[string]any{"@value": "X"}), "X"},
		{"@id key", v(map[string]any{"@id": "X"}), "X"},
		{"text before name", v(map[string]any{"name": "N", "text": "T"}), "T"},
		{"empty text falls through", v(map[string]any{"text": " ", "name": "N"}), "N"},
		{"list of string", v([]any{"X", "Y"}), "X"},
		{"list of map", v([]any{map[string]any{"name": " X "}}), "X"},
		{"nested list", v([]any{[]any{"X"}}), "X"},
		{"empty list", v([]any{}), ""},
		{"number", v(5), ""},
		{"absent", value.Value{}, ""},
		{"unrelated map", v(map[string]any{"url": "x"}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  string
	}{
		{"string", v("https://x/a.jpg"), "https://x/a.jpg"},
		{"list of strings", v([]any{"https://x/a.jpg", "https://x/b.jpg"}), "https://x/a.jpg"},
		{"image object", v(map[string]any{"@type": "ImageObject", "url": "https://x/a.jpg"}), "https://x/a.jpg"},
		{"contentUrl", v(map[string]any{"contentUrl": "https://x/c.jpg"}), "https://x/c.jpg"},
		{"@id", v(map[string]any{"@id": "https://x/id.jpg"}), "https://x/id.jpg"},
		{"src", v(map[string]any{"src": "https://x/s.jpg"}), "https://x/s.jpg"},
		{"nested image.url", v(map[string]any{"image": map[string]any{"url": "https://x/n.jpg"}}), "https://x/n.jpg"},
		{"url wins over src", v(map[string]any{"src": "s", "url": "u"}), "u"},
		{"list of objects", v([]any{map[string]any{"url": "https://x/a.jpg"}}), "https://x/a.jpg"},
		{"absent", value.Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Image(tt.input); got != tt.want {
				t.Errorf("Image() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIngredients(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  []string
	}{
		{"list", v([]any{"a", "b"}), []string{"a", "b"}},
		{"trimmed", v([]any{" a ", "b\n"}), []string{"a", "b"}},
		{"string lines", v("a\nb\n\nc"), []string{"a", "b", "c"}},
		{"crlf lines", v("a\r\nb"), []string{"a", "b"}},
		{"objects", v([]any{map[string]any{"text": "1 egg"}, map[string]any{"name": "no text"}}), []string{"1 egg"}},
		{"number", v(3), []string{}},
		{"absent", value.Value{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ingredients(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ingredients() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestInstructions(t *testing.T) {
	sections := v([]any{
		map[string]any{
			"@type": "HowToSection",
			"name":  "Dough",
			"itemListElement": []any{
				map[string]any{"@type": "HowToStep", "text": "Mix"},
				map[string]any{"@type": "HowToStep", "name": "Knead"},
			},
		},
		map[string]any{
			"@type":           "HowToSection",
			"itemListElement": []any{map[string]any{"text": "Bake"}},
		},
	})

	tests := []struct {
		name  string
		input value.Value
		want  []string
	}{
		{"list of strings", v([]any{"Mix", "Bake"}), []string{"Mix", "Bake"}},
		{"list of steps", v([]any{map[string]any{"text": "Mix"}, map[string]any{"name": "Bake"}}), []string{"Mix", "Bake"}},
		{"sections flattened", sections, []string{"Mix", "Knead", "Bake"}},
		{"single section", v(map[string]any{"itemListElement": []any{"Mix", map[string]any{"text": "Bake"}}}), []string{"Mix", "Bake"}},
		{"single step without list", v(map[string]any{"text": "Mix"}), []string{}},
		{"single section with scalar list", v(map[string]any{"itemListElement": "Mix"}), []string{}},
		{"string", v("Mix\n\nBake\n"), []string{"Mix", "Bake"}},
		{"text wins over name", v([]any{map[string]any{"name": "N", "text": "T"}}), []string{"T"}},
		{"absent", value.Value{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Instructions(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Instructions() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  []string
	}{
		{"list", v([]any{"easy", " quick "}), []string{"easy", "quick"}},
		{"comma string", v("easy, quick,, weeknight "), []string{"easy", "quick", "weeknight"}},
		{"absent", value.Value{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Keywords(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  string
	}{
		{"string", v(" Jane "), "Jane"},
		{"person", v(map[string]any{"@type": "Person", "name": "Jane"}), "Jane"},
		{"list of persons", v([]any{map[string]any{"name": "Jane"}, map[string]any{"name": "Joe"}}), "Jane"},
		{"absent", value.Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Author(tt.input); got != tt.want {
				t.Errorf("Author() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYield(t *testing.T) {
	tests := []struct {
		name      string
		input     value.Value
		wantCount int
		wantText  *string
	}{
		{"integer", v(4), 4, nil},
		{"servings", v("4 servings"), 4, ptr("4 servings")},
		{"makes", v("Makes 24 cookies"), 24, ptr("Makes 24 cookies")},
		{"no digits", v(" a dozen "), 0, ptr("a dozen")},
		{"list", v([]any{"6", "6 portions"}), 6, ptr("6")},
		{"absent", value.Value{}, 0, nil},
		{"blank", v("   "), 0, ptr("")},
		{"negative", v(-2), 0, nil},
		{"huge", value.Number(1e300), 0, nil},
		{"infinite", value.Number(math.Inf(1)), 0, nil},
		{"negative infinite", value.Number(math.Inf(-1)), 0, nil},
		{"not a number", value.Number(math.NaN()), 0, nil},
		{"fractional", v(2.5), 2, nil},
		{"huge digit run", v("99999999999999999999 servings"), 0, ptr("99999999999999999999 servings")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, text := Yield(tt.input)
			if count != tt.wantCount {
				t.Errorf("Yield() count = %d, want %d", count, tt.wantCount)
			}
			if !reflect.DeepEqual(text, tt.wantText) {
				t.Errorf("Yield() text = %v, want %v", deref(text), deref(tt.wantText))
			}
		})
	}
}

func TestNutrition(t *testing.T) {
	got := Nutrition(v(map[string]any{
		"@type":        "NutritionInformation",
		"calories":     " 240 kcal ",
		"fatContent":   "9 g",
		"sugarContent": 12,
	}))
	want := map[string]string{"calories": "240 kcal", "fatContent": "9 g"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Nutrition() = %v, want %v", got, want)
	}

	if got := Nutrition(value.Value{}); got != nil {
		t.Errorf("Nutrition(absent) = %v, want nil", got)
	}
	if got := Nutrition(v("240 kcal")); got == nil || len(got) != 0 {
		t.Errorf("Nutrition(string) = %v, want empty map", got)
	}
}

func TestTools(t *testing.T) {
	tests := []struct {
		name  string
		input value.Value
		want  []string
	}{
		{"strings", v([]any{"whisk", "bowl"}), []string{"whisk", "bowl"}},
		{"how-to tools", v([]any{map[string]any{"name": "whisk"}, map[string]any{"text": "bowl"}}), []string{"whisk", "bowl"}},
		{"single string", v("skillet"), []string{"skillet"}},
		{"absent", value.Value{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tools(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tools() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	raw := &recipe.Raw{
		Name:         v("Pancakes"),
		Image:        v(map[string]any{"url": "https://x/p.jpg"}),
		PrepTime:     v("PT10M"),
		Yield:        v("8 pancakes"),
		Ingredients:  v([]any{"flour", "milk"}),
		Instructions: v("Mix\nFry"),
		Keywords:     v("breakfast, easy"),
		Author:       v(map[string]any{"name": "Jane"}),
	}

	r := Record(raw)

	if r.Name != "Pancakes" || r.ImageURL != "https://x/p.jpg" || r.Author != "Jane" {
		t.Errorf("unexpected scalar fields: %+v", r)
	}
	if r.PrepTime == nil || *r.PrepTime != "PT10M" {
		t.Errorf("PrepTime = %v", deref(r.PrepTime))
	}
	if r.CookTime != nil || r.TotalTime != nil {
		t.Error("expected absent cook/total times")
	}
	if r.Yield != 8 || deref(r.YieldText) != "8 pancakes" {
		t.Errorf("Yield = %d %q", r.Yield, deref(r.YieldText))
	}
	if len(r.Ingredients) != 2 || len(r.Instructions) != 2 || len(r.Keywords) != 2 {
		t.Errorf("unexpected lists: %+v", r)
	}
	if r.Nutrition != nil {
		t.Errorf("Nutrition = %v, want nil", r.Nutrition)
	}
	if r.ID != "" {
		t.Errorf("ID = %q, want unset", r.ID)
	}
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
