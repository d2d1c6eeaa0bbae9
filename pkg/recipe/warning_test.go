package recipe

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestComputeWarnings(t *testing.T) {
	tests := []struct {
		name string
		r    Recipe
		want Warnings
	}{
		{
			name: "complete",
			r: Recipe{
				Ingredients:  []string{"flour"},
				Instructions: []string{"mix"},
				ImageURL:     "https://example.com/a.jpg",
				Description:  "tasty",
				PrepTime:     strPtr("PT5M"),
			},
			want: Warnings{},
		},
		{
			name: "only description missing",
			r: Recipe{
				Ingredients:  []string{"flour"},
				Instructions: []string{"mix"},
				ImageURL:     "https://example.com/a.jpg",
				TotalTime:    strPtr("PT1H"),
			},
			want: Warnings{MissingDescription},
		},
		{
			name: "empty recipe",
			r:    Recipe{Name: "x"},
			want: Warnings{MissingIngredients, MissingInstructions, MissingImage, MissingDescription, MissingTimes},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWarnings(&tt.r)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeWarnings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWarnings_Contains(t *testing.T) {
	w := Warnings{MissingImage, MissingTimes}
	if !w.Contains(MissingTimes) {
		t.Error("expected MissingTimes")
	}
	if w.Contains(MissingIngredients) {
		t.Error("did not expect MissingIngredients")
	}
}

func TestWithPlaceholderName(t *testing.T) {
	if got := (Recipe{}).WithPlaceholderName().Name; got != PlaceholderName {
		t.Errorf("Name = %q, want %q", got, PlaceholderName)
	}
	if got := (Recipe{Name: "Pie"}).WithPlaceholderName().Name; got != "Pie" {
		t.Errorf("Name = %q, want Pie", got)
	}
}
