package cleaner

import (
	"regexp"
	"strings"
	"unicode"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// entityReplacer decodes the named references recipe sites commonly leave in
// structured data. A Replacer makes a single pass, so "&amp;lt;" decodes to
// "&lt;" regardless of table order.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&copy;", "©",
	"&reg;", "®",
	"&trade;", "™",
	"&hellip;", "…",
	"&ndash;", "–",
	"&mdash;", "—",
	"&lsquo;", "‘",
	"&rsquo;", "’",
	"&ldquo;", "“",
	"&rdquo;", "”",
	"&bull;", "•",
	"&deg;", "°",
	"&frac12;", "½",
	"&frac14;", "¼",
	"&frac34;", "¾",
)

var (
	numberedStep = regexp.MustCompile(`^\d+\.\s*`)
	labelledStep = regexp.MustCompile(`(?i)^step\s*\d+\s*:\s*`)
	bracketStep  = regexp.MustCompile(`^\(\d+\)\s*`)
	bulletStep   = regexp.MustCompile(`^[•·‣◦]\s*`)
)

// StripTags removes anything that looks like a markup tag.
func StripTags(s string) string {
	return tagRegex.ReplaceAllString(s, "")
}

// DecodeEntities replaces the supported named character references.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// CollapseWhitespace replaces whitespace runs with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripStepMarker(s string) string {
	if loc := numberedStep.FindStringIndex(s); loc != nil {
		rest := s[loc[1]:]
		// "1.5 cups" is a quantity, not a step number.
		if strings.HasSuffix(s[:loc[1]], ".") && rest != "" && unicode.IsDigit(rune(rest[0])) {
			return s
		}
		return strings.TrimSpace(rest)
	}
	for _, re := range []*regexp.Regexp{labelledStep, bracketStep, bulletStep} {
		if loc := re.FindStringIndex(s); loc != nil {
			return strings.TrimSpace(s[loc[1]:])
		}
	}
	return s
}

// NewText creates the cleaner for free text fields.
func NewText() *Chain {
	return NewChain(
		Func("tags", StripTags),
		Func("entities", DecodeEntities),
		Func("whitespace", CollapseWhitespace),
	).Named("text")
}

// NewInstruction creates the cleaner for instruction steps: NewText
// followed by removal of one leading step marker.
func NewInstruction() *Chain {
	return NewChain(NewText(), Func("step-marker", stripStepMarker)).Named("instruction")
}
