// Package links discovers recipe page links on listing and index pages.
package links

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector picks links out of a page.
type Selector struct {
	css     string
	pattern *regexp.Regexp
	limit   int
}

// NewSelector creates a selector. css defaults to every anchor; pattern,
// when set, must match the resolved URL; limit caps the result (0 means no
// cap).
func NewSelector(css, pattern string, limit int) (*Selector, error) {
	if css == "" {
		css = "a[href]"
	}
	s := &Selector{css: css, limit: limit}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid link pattern: %w", err)
		}
		s.pattern = re
	}
	return s, nil
}

// Find returns the absolute http(s) URLs the selector matches in html, in
// document order, without duplicates or fragments. The page URL itself is
// skipped.
func (s *Selector) Find(html, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := url.Parse(href); err == nil {
			base = base.ResolveReference(b)
		}
	}

	self := *base
	self.Fragment = ""
	seen := map[string]bool{self.String(): true}

	var found []string
	doc.Find(s.css).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		u, ok := resolve(base, sel.AttrOr("href", ""))
		if !ok || seen[u] {
			return true
		}
		seen[u] = true
		if s.pattern != nil && !s.pattern.MatchString(u) {
			return true
		}
		found = append(found, u)
		return s.limit <= 0 || len(found) < s.limit
	})
	return found, nil
}

func resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}
