package kanoon

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanHTML reduces an HTML fragment to whitespace-normalised plain text.
// Indian Kanoon marks matches with <b> and wraps judgment text in markup.
func CleanHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}

	// Block elements would otherwise run their text together.
	doc.Find("p, div, br, h1, h2, h3, h4, li, tr, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()

	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
