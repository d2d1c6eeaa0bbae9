package cleaner

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// mustClean runs c and fails the test on error.
func mustClean(t *testing.T, c Cleaner, s string) string {
	t.Helper()
	got, err := c.Clean(s)
	if err != nil {
		t.Fatalf("%s.Clean(%q) error = %v", c.Name(), s, err)
	}
	return got
}

func TestNoop(t *testing.T) {
	c := NewNoop()
	if c.Name() != "noop" {
		t.Errorf("Name() = %q, want noop", c.Name())
	}
	for _, in := range []string{"", "Hello, World!", "<p>Mix &amp; stir</p>", "  \n\t  "} {
		if got := mustClean(t, c, in); got != in {
			t.Errorf("Clean(%q) = %q", in, got)
		}
	}
}

func TestFunc(t *testing.T) {
	c := Func("upper", strings.ToUpper)
	if c.Name() != "upper" {
		t.Errorf("Name() = %q", c.Name())
	}
	if got := mustClean(t, c, "salt"); got != "SALT" {
		t.Errorf("Clean() = %q, want SALT", got)
	}
}

// --- Text helpers ---

func TestStripTags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Mix flour</p>", "Mix flour"},
		{`<a href="/x">link</a> text`, "link text"},
		{"no tags", "no tags"},
		{"<br/>", ""},
	}

	for _, tt := range tests {
		if got := StripTags(tt.input); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Salt &amp; pepper", "Salt & pepper"},
		{"350&deg;F", "350°F"},
		{"&frac12; cup", "½ cup"},
		{"Mom&rsquo;s pie", "Mom’s pie"},
		{"wait&hellip;", "wait…"},
		{"&quot;quoted&quot;", `"quoted"`},
		{"&amp;lt;", "&lt;"},
		{"&unknown;", "&unknown;"},
	}

	for _, tt := range tests {
		if got := DecodeEntities(tt.input); got != tt.want {
			t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \n\t b   c  "); got != "a b c" {
		t.Errorf("CollapseWhitespace() = %q", got)
	}
}

func TestText(t *testing.T) {
	c := NewText()
	if got := mustClean(t, c, "<p>Salt&nbsp;&amp;\n  pepper</p>"); got != "Salt & pepper" {
		t.Errorf("Clean() = %q", got)
	}
	if got, want := c.Stages(), []string{"tags", "entities", "whitespace"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Stages() = %v, want %v", got, want)
	}
	// Step markers are left for the instruction cleaner.
	if got := mustClean(t, c, "1. Mix"); got != "1. Mix" {
		t.Errorf("Clean() = %q, want marker kept", got)
	}
}

func TestInstruction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"numbered", "1. Mix flour", "Mix flour"},
		{"markup", "<p>Mix flour</p>", "Mix flour"},
		{"step label", "Step 2: Bake", "Bake"},
		{"step label lower", "step 10 : Bake", "Bake"},
		{"bracketed", "(3) Serve", "Serve"},
		{"bullet", "• Chill", "Chill"},
		{"bullet entity", "&bull; Chill", "Chill"},
		{"only one marker", "1. 2. Mix", "2. Mix"},
		{"quantity kept", "1.5 cups of flour", "1.5 cups of flour"},
		{"markup and number", "<li>4. Fold in eggs</li>", "Fold in eggs"},
		{"clean", "Mix flour", "Mix flour"},
	}

	c := NewInstruction()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustClean(t, c, tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInstruction_Idempotent(t *testing.T) {
	c := NewInstruction()
	inputs := []string{"Mix flour", "Preheat oven to 350°F.", "Fold gently & serve"}
	for _, in := range inputs {
		once := mustClean(t, c, in)
		twice := mustClean(t, c, once)
		if once != twice {
			t.Errorf("instruction cleaning not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

// --- Chain Tests ---

func TestChain_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChain_Order(t *testing.T) {
	c := NewChain(NewText(), NewInstruction())

	got, err := c.Clean("<li>Step 1: Whisk&nbsp;eggs</li>")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "Whisk eggs" {
		t.Errorf("Clean() = %q, want %q", got, "Whisk eggs")
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChain_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, NewText())

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("expected error containing 'test error', got %v", err)
	}
}

func TestChain_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"double", []Cleaner{NewText(), NewInstruction()}, "chain(text->instruction)"},
		{"stages", []Cleaner{Func("a", strings.TrimSpace), NewNoop()}, "chain(a->noop)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Polisher ---

func TestPolisher_Defaults(t *testing.T) {
	r := recipe.Recipe{
		Name:         " Mom&rsquo;s <b>Pie</b> ",
		Description:  "<p>Flaky &amp; sweet</p>",
		Ingredients:  []string{"1 cup flour", "<span></span>", "2&frac12; tbsp butter"},
		Instructions: []string{"1. Mix", "Step 2: Bake"},
		Keywords:     []string{" pie "},
		Nutrition:    map[string]string{"calories": " 300 kcal "},
	}

	if err := NewPolisher(nil, nil).Polish(&r); err != nil {
		t.Fatalf("Polish() error = %v", err)
	}

	if r.Name != "Mom’s Pie" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Description != "Flaky & sweet" {
		t.Errorf("Description = %q", r.Description)
	}
	if want := []string{"1 cup flour", "2½ tbsp butter"}; !reflect.DeepEqual(r.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", r.Ingredients, want)
	}
	if want := []string{"Mix", "Bake"}; !reflect.DeepEqual(r.Instructions, want) {
		t.Errorf("Instructions = %v, want %v", r.Instructions, want)
	}
	if r.Keywords[0] != "pie" {
		t.Errorf("Keywords = %v", r.Keywords)
	}
	if r.Nutrition["calories"] != "300 kcal" {
		t.Errorf("Nutrition = %v", r.Nutrition)
	}
	if r.Tools != nil {
		t.Errorf("Tools = %v, want nil", r.Tools)
	}
}

func TestForMode(t *testing.T) {
	tests := []struct {
		mode             Mode
		wantName         string
		wantInstructions []string
	}{
		{ModeText, "Soup", []string{"1. Simmer"}},
		{ModeSteps, "<i>Soup</i>", []string{"Simmer"}},
		{ModeFull, "Soup", []string{"Simmer"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p, err := ForMode(tt.mode)
			if err != nil || p == nil {
				t.Fatalf("ForMode(%q) = %v, %v", tt.mode, p, err)
			}
			r := recipe.Recipe{Name: "<i>Soup</i>", Instructions: []string{"<p>1. Simmer</p>"}}
			if err := p.Polish(&r); err != nil {
				t.Fatalf("Polish() error = %v", err)
			}
			if r.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", r.Name, tt.wantName)
			}
			if !reflect.DeepEqual(r.Instructions, tt.wantInstructions) {
				t.Errorf("Instructions = %v, want %v", r.Instructions, tt.wantInstructions)
			}
		})
	}
}

func TestForMode_Off(t *testing.T) {
	for _, m := range []Mode{ModeOff, ""} {
		if p, err := ForMode(m); p != nil || err != nil {
			t.Errorf("ForMode(%q) = %v, %v; want nil, nil", m, p, err)
		}
	}
	if _, err := ForMode("sparkle"); err == nil {
		t.Error("ForMode(sparkle) returned nil error")
	}
}

func TestPolisher_CustomCleaners(t *testing.T) {
	r := recipe.Recipe{
		Name:         "<i>Soup</i>",
		Instructions: []string{"1. Simmer"},
	}

	// Instructions left untouched by a noop instruction cleaner.
	if err := NewPolisher(NewText(), NewNoop()).Polish(&r); err != nil {
		t.Fatalf("Polish() error = %v", err)
	}
	if r.Name != "Soup" {
		t.Errorf("Name = %q", r.Name)
	}
	if want := []string{"1. Simmer"}; !reflect.DeepEqual(r.Instructions, want) {
		t.Errorf("Instructions = %v, want %v", r.Instructions, want)
	}
}

func TestPolisher_Error(t *testing.T) {
	r := recipe.Recipe{Name: "Soup"}
	err := NewPolisher(&errorCleaner{}, nil).Polish(&r)
	if err == nil {
		t.Fatal("expected error from failing cleaner")
	}
	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("error = %v, want wrapped test error", err)
	}
}
