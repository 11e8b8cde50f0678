// Package dom answers presence questions about a page's HTML.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const skipped = "script, style, template, noscript"

// ContainsExactText reports whether the document carries text as an
// element's whole text, whitespace collapsed. Only the deepest matching element
// counts, so wrappers and trailing child elements such as spinners do not
// change the answer. Script and style contents are ignored.
func ContainsExactText(html, text string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, fmt.Errorf("parsing html: %w", err)
	}

	want := normalize(text)
	found := false
	doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if isMatch(s, want) {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

// isMatch mirrors the page-side visibility check: s matches when its text
// equals want and no child element's text does.
func isMatch(s *goquery.Selection, want string) bool {
	if s.Is(skipped) || normalize(s.Text()) != want {
		return false
	}
	deeper := s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
		return !c.Is(skipped) && normalize(c.Text()) == want
	})
	return deeper.Length() == 0
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
