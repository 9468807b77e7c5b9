package textnorm

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup extracts the text content of review bodies that carry HTML
// fragments (catalog reviews use "<br /><br />" as paragraph breaks).
// Tags are replaced by whitespace, entities are decoded and whitespace runs
// collapse to one space. Input without '<' or '&' is returned unchanged.
func StripMarkup(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
