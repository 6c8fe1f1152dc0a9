package render

import (
	"html"
	"strings"

	"github.com/coolbeans/villagerecords/pkg/minutes"
)

// HighlightClass is the CSS class of HTML search highlights.
const HighlightClass = "search-highlight"

// HighlightHTML escapes text and wraps each query match in a mark element.
func HighlightHTML(text string, q minutes.Query) string {
	var b strings.Builder
	for _, seg := range minutes.Highlight(text, q) {
		escaped := html.EscapeString(seg.Text)
		if !seg.Match {
			b.WriteString(escaped)
			continue
		}
		b.WriteString(`<mark class="` + HighlightClass + `">`)
		b.WriteString(escaped)
		b.WriteString(`</mark>`)
	}
	return b.String()
}

// HighlightTerminal renders text with query matches in the Match style.
func HighlightTerminal(text string, q minutes.Query) string {
	var b strings.Builder
	for _, seg := range minutes.Highlight(text, q) {
		if seg.Match {
			b.WriteString(Match.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
