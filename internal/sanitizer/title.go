package sanitizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageTitle returns the whitespace-collapsed text of the document's <title>,
// or "" when there is none. Display only; Sanitize never depends on it.
func PageTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	title := doc.Find("head title").First().Text()
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	if title == "" {
		title = doc.Find("h1").First().Text()
	}

	return whitespaceRun.ReplaceAllString(strings.TrimSpace(title), " ")
}
