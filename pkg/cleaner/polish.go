package cleaner

import (
	"fmt"

	"github.com/jmylchreest/recipescan/pkg/recipe"
)

// Polisher cleans the text fields of a canonical recipe. Instructions go
// through the instruction cleaner, everything else through the text cleaner.
type Polisher struct {
	text        Cleaner
	instruction Cleaner
}

// NewPolisher creates a polisher. Nil cleaners default to NewText and
// NewInstruction.
func NewPolisher(text, instruction Cleaner) *Polisher {
	if text == nil {
		text = NewText()
	}
	if instruction == nil {
		instruction = NewInstruction()
	}
	return &Polisher{text: text, instruction: instruction}
}

// Polish cleans r in place. List entries that clean to nothing are dropped.
func (p *Polisher) Polish(r *recipe.Recipe) error {
	for _, field := range []*string{&r.Name, &r.Description, &r.Category, &r.Cuisine, &r.Author} {
		cleaned, err := p.text.Clean(*field)
		if err != nil {
			return fmt.Errorf("%s cleaner: %w", p.text.Name(), err)
		}
		*field = cleaned
	}

	var err error
	if r.Ingredients, err = cleanList(r.Ingredients, p.text); err != nil {
		return err
	}
	if r.Instructions, err = cleanList(r.Instructions, p.instruction); err != nil {
		return err
	}
	if r.Keywords, err = cleanList(r.Keywords, p.text); err != nil {
		return err
	}
	if r.Tools, err = cleanList(r.Tools, p.text); err != nil {
		return err
	}

	for k, v := range r.Nutrition {
		cleaned, err := p.text.Clean(v)
		if err != nil {
			return fmt.Errorf("%s cleaner: %w", p.text.Name(), err)
		}
		r.Nutrition[k] = cleaned
	}
	return nil
}

// Mode selects how much of a recipe a Polisher cleans.
type Mode string

const (
	// ModeOff disables polishing.
	ModeOff Mode = "off"
	// ModeText cleans markup everywhere but keeps step numbering.
	ModeText Mode = "text"
	// ModeSteps cleans instruction steps only.
	ModeSteps Mode = "steps"
	// ModeFull cleans every field and strips step numbering.
	ModeFull Mode = "full"
)

// Modes lists the polish modes.
var Modes = []Mode{ModeOff, ModeText, ModeSteps, ModeFull}

// ForMode returns the polisher for m, or nil for ModeOff and "".
func ForMode(m Mode) (*Polisher, error) {
	switch m {
	case ModeOff, "":
		return nil, nil
	case ModeText:
		return NewPolisher(NewText(), NewText()), nil
	case ModeSteps:
		return NewPolisher(NewNoop(), NewInstruction()), nil
	case ModeFull:
		return NewPolisher(NewText(), NewInstruction()), nil
	}
	return nil, fmt.Errorf("unknown polish mode %q", m)
}

func cleanList(items []string, c Cleaner) ([]string, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		cleaned, err := c.Clean(item)
		if err != nil {
			return nil, fmt.Errorf("%s cleaner: %w", c.Name(), err)
		}
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out, nil
}
