package utils

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

	// An unterminated element swallows the rest of the input.
	scriptRegex = regexp.MustCompile(`(?is)<script\b[^>]*>.*?(?:</script\s*>|$)`)
	styleRegex  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?(?:</style\s*>|$)`)
)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// StripHTML removes HTML tags from s. Script and style elements go together
// with their content. Entities are decoded and the markup stripped a second
// time so that encoded markup does not survive.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	out := stripTags(s)
	out = entityReplacer.Replace(out)
	out = stripTags(out)

	return strings.TrimSpace(out)
}

func stripTags(s string) string {
	s = scriptRegex.ReplaceAllString(s, "")
	s = styleRegex.ReplaceAllString(s, "")
	return htmlTagRegex.ReplaceAllString(s, "")
}

// StripHTMLValue applies StripHTML to every string inside a decoded JSON
// value (maps, slices and scalars) and returns the cleaned value.
func StripHTMLValue(v any) any {
	switch t := v.(type) {
	case string:
		return StripHTML(t)
	case map[string]any:
		for k, item := range t {
			t[k] = StripHTMLValue(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = StripHTMLValue(item)
		}
		return t
	default:
		return v
	}
}
