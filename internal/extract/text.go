package extract

import (
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// cleanText decodes entities, drops embedded markup and collapses whitespace.
// Review titles and ratings occasionally arrive with HTML from publisher feeds.
// Text that merely contains angle brackets ("3<5", "<contain>") is kept as written.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}

	if looksLikeMarkup(s) {
		if doc, err := html.Parse(strings.NewReader(s)); err == nil {
			return collapse(extractVisibleText(doc))
		}
	}
	return collapse(html.UnescapeString(s))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var voidElements = map[atom.Atom]bool{
	atom.Br:  true,
	atom.Hr:  true,
	atom.Img: true,
	atom.Wbr: true,
}

// looksLikeMarkup reports whether s contains at least one tag and every tag is
// a known HTML element that is properly closed (or void).
func looksLikeMarkup(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	open := make(map[atom.Atom]int)
	found := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			for _, n := range open {
				if n != 0 {
					return false
				}
			}
			return found
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == 0 {
				return false
			}
			found = true
			switch {
			case tt == html.SelfClosingTagToken || voidElements[tok.DataAtom]:
			case tt == html.StartTagToken:
				open[tok.DataAtom]++
			default:
				open[tok.DataAtom]--
				if open[tok.DataAtom] < 0 {
					return false
				}
			}
		}
	}
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

const calendarLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	calendarLayout,
}

// calendarDate reduces a timestamp to its YYYY-MM-DD portion as written,
// without converting time zones.
func calendarDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(calendarLayout), true
		}
	}

	if len(raw) >= len(calendarLayout) {
		if t, err := time.Parse(calendarLayout, raw[:len(calendarLayout)]); err == nil {
			return t.Format(calendarLayout), true
		}
	}

	return "", false
}
