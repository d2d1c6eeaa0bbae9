package cleaner

import (
	"fmt"
	"strings"
)

// Chain runs cleaners in order, feeding each the previous output.
type Chain struct {
	name     string
	cleaners []Cleaner
}

// NewChain creates a chain of cleaners.
//
//	steps := cleaner.NewChain(
//	    cleaner.NewText(),
//	    cleaner.Func("upper", strings.ToUpper),
//	)
func NewChain(cleaners ...Cleaner) *Chain {
	return &Chain{cleaners: cleaners}
}

// Named returns a copy of the chain that reports name instead of its
// stage list.
func (c *Chain) Named(name string) *Chain {
	return &Chain{name: name, cleaners: c.cleaners}
}

// Clean runs every stage, stopping at the first error.
func (c *Chain) Clean(s string) (string, error) {
	for _, cl := range c.cleaners {
		out, err := cl.Clean(s)
		if err != nil {
			return "", fmt.Errorf("%s: %w", cl.Name(), err)
		}
		s = out
	}
	return s, nil
}

// Name returns the chain's name, or its stages as "chain(a->b)".
func (c *Chain) Name() string {
	if c.name != "" {
		return c.name
	}
	return "chain(" + strings.Join(c.Stages(), "->") + ")"
}

// Stages lists the names of the chained cleaners.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.cleaners))
	for i, cl := range c.cleaners {
		names[i] = cl.Name()
	}
	return names
}
