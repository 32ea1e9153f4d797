// Package markup removes HTML/XML markup from document content.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip replaces every tag with a single space and decodes entities.
// Script and style bodies are dropped. Malformed markup is stripped best-effort.
func Strip(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a read error; a string reader only yields EOF.
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if skip > 0 && isRawText(z) {
				skip--
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(' ')
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
