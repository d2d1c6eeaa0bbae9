package recipe

// Warning flags a canonical field that could not be populated.
type Warning string

const (
	MissingIngredients  Warning = "missingIngredients"
	MissingInstructions Warning = "missingInstructions"
	MissingImage        Warning = "missingImage"
	MissingDescription  Warning = "missingDescription"
	MissingTimes        Warning = "missingTimes"
)

// Warnings is an ordered set of warnings with at most one of each.
type Warnings []Warning

// Contains reports whether w holds warning.
func (w Warnings) Contains(warning Warning) bool {
	for _, x := range w {
		if x == warning {
			return true
		}
	}
	return false
}

// Strings returns the warnings as plain strings.
func (w Warnings) Strings() []string {
	out := make([]string, len(w))
	for i, x := range w {
		out[i] = string(x)
	}
	return out
}

// ComputeWarnings returns the warnings for r in fixed order: ingredients,
// instructions, image, description, times.
func ComputeWarnings(r *Recipe) Warnings {
	w := Warnings{}
	if len(r.Ingredients) == 0 {
		w = append(w, MissingIngredients)
	}
	if len(r.Instructions) == 0 {
		w = append(w, MissingInstructions)
	}
	if r.ImageURL == "" {
		w = append(w, MissingImage)
	}
	if r.Description == "" {
		w = append(w, MissingDescription)
	}
	if !r.HasTimes() {
		w = append(w, MissingTimes)
	}
	return w
}

// Method identifies the detection strategy that produced a recipe.
type Method string

const (
	MethodJSONLD    Method = "jsonld"
	MethodNextJS    Method = "nextjs"
	MethodMicrodata Method = "microdata"
)
