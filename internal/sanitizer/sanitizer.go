// Package sanitizer turns scraped markup into plain text for model input.
//
// The conversion is a fixed regex pipeline, not an HTML parser: malformed
// markup degrades to literal text instead of being repaired.
package sanitizer

import (
	"regexp"
	"strings"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlock  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	// ASCII whitespace, vertical tab, and the Unicode space separators
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
)

// entities are decoded in this order, one pass each
var entities = []struct{ from, to string }{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
}

// Sanitize strips scripts, styles and tags, decodes the basic named entities,
// and collapses whitespace.
func Sanitize(markup string) string {
	if markup == "" {
		return ""
	}

	text := scriptBlock.ReplaceAllString(markup, "")
	text = styleBlock.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, " ")

	for _, e := range entities {
		text = strings.ReplaceAll(text, e.from, e.to)
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
