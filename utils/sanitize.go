package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = bluemonday.UGCPolicy()
	plainPolicy   = bluemonday.StrictPolicy()
)

// SanitizeContent keeps safe user-generated HTML.
func SanitizeContent(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeText strips all markup and returns plain, unescaped text.
// Callers that render it as HTML must escape it themselves.
func SanitizeText(input string) string {
	return html.UnescapeString(plainPolicy.Sanitize(input))
}
