// Package markdown turns Reddit-flavored markdown into the plain text the
// mixing pipeline operates on.
package markdown

import (
	"regexp"
	"strings"
)

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// linkTarget matches a parenthesized link destination, allowing one level of
// nested parentheses as in Wikipedia URLs.
const linkTarget = `\((?:[^()\n]|\([^()\n]*\))*\)`

// Rules run in order on every pass. Each one only deletes characters, which
// is what lets Normalize iterate to a fixed point.
var rules = []rewrite{
	{regexp.MustCompile(`\r\n?`), "\n"},
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile(`(?s)~~~.*?~~~`), ""},
	{regexp.MustCompile("`([^`\n]+)`"), "$1"},
	{regexp.MustCompile(`!\[[^\]\n]*\]` + linkTarget), ""},
	{regexp.MustCompile(`\[([^\]\n]*)\]` + linkTarget), "$1"},
	{regexp.MustCompile(`<[^<>\n]+>`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*(?:[-*_=][ \t]*){3,}$`), ""},
	{regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}(?:[ \t]+|$)`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*\d{1,9}[.)][ \t]+`), ""},
	{regexp.MustCompile(`\*\*([^*\n]+?)\*\*`), "$1"},
	{regexp.MustCompile(`(^|[^\w])__([^_\n]+?)__([^\w]|$)`), "$1$2$3"},
	{regexp.MustCompile(`~~([^~\n]+?)~~`), "$1"},
	{regexp.MustCompile(`\*([^\s*](?:[^*\n]*[^\s*])?)\*`), "$1"},
	{regexp.MustCompile(`(^|[^\w])_([^\s_](?:[^_\n]*[^\s_])?)_([^\w]|$)`), "$1$2$3"},
	{regexp.MustCompile(`(?m)[ \t]+$`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Normalize strips markdown and HTML syntax from raw and returns plain text.
// Link text, inline code text and emphasized text survive; images, code
// blocks and tags do not. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	text := raw
	for {
		next := strings.TrimSpace(applyRules(text))
		if next == text {
			return next
		}
		text = next
	}
}

func applyRules(text string) string {
	for _, rule := range rules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}
