package xmltoken

import "strings"

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
	unescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#039;", "'",
		"&amp;", "&",
	)
)

// Escape replaces the five XML-sensitive characters with entities.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Unescape reverses Escape.
func Unescape(text string) string {
	return unescaper.Replace(text)
}
