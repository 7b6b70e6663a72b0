package svg

import "strings"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var urlEscaper = strings.NewReplacer(
	"&", "&amp;",
)

// EscapeText escapes text content for embedding in an XML element.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeURL escapes a URL for embedding in a CSS @import inside the style
// block. Only ampersands need escaping there.
func EscapeURL(s string) string {
	return urlEscaper.Replace(s)
}
