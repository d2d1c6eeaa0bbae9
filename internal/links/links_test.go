package links

import (
	"reflect"
	"testing"
)

const listing = `<html><head></head><body>
<nav><a href="/">Home</a><a href="/recipes/">Recipes</a></nav>
<div class="card"><a href="/recipes/lasagne#comments">Lasagne</a></div>
<div class="card"><a href="https://example.com/recipes/soup">Soup</a></div>
<div class="card"><a href="/recipes/lasagne">Lasagne again</a></div>
<div class="card"><a href="bread">Bread</a></div>
<div class="card"><a href="mailto:chef@example.com">Mail</a></div>
<div class="card"><a href="javascript:void(0)">JS</a></div>
<div class="card"><a href="#top">Top</a></div>
</body></html>`

func TestSelector_Find(t *testing.T) {
	tests := []struct {
		name    string
		css     string
		pattern string
		limit   int
		want    []string
	}{
		{
			name: "cards",
			css:  ".card a",
			want: []string{
				"https://example.com/recipes/lasagne",
				"https://example.com/recipes/soup",
				"https://example.com/recipes/bread",
			},
		},
		{
			name:    "all anchors with pattern",
			pattern: `/recipes/[a-z]+$`,
			want: []string{
				"https://example.com/recipes/lasagne",
				"https://example.com/recipes/soup",
				"https://example.com/recipes/bread",
			},
		},
		{
			name:  "limit",
			css:   ".card a",
			limit: 2,
			want: []string{
				"https://example.com/recipes/lasagne",
				"https://example.com/recipes/soup",
			},
		},
		{
			name: "no match",
			css:  ".missing a",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSelector(tt.css, tt.pattern, tt.limit)
			if err != nil {
				t.Fatalf("NewSelector() error = %v", err)
			}
			got, err := s.Find(listing, "https://example.com/recipes/")
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelector_BaseHref(t *testing.T) {
	html := `<html><head><base href="https://cdn.example.org/site/"></head>
<body><a href="recipes/pie">Pie</a></body></html>`

	s, _ := NewSelector("", "", 0)
	got, err := s.Find(html, "https://example.com/index")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if want := []string{"https://cdn.example.org/site/recipes/pie"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Find() = %v, want %v", got, want)
	}
}

func TestNewSelector_InvalidPattern(t *testing.T) {
	if _, err := NewSelector("", "([", 0); err == nil {
		t.Error("NewSelector() accepted an invalid pattern")
	}
}
