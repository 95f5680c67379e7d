package model

import (
	"regexp"
	"strings"
)

var scriptTagRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// Sanitize strips dangerous markup from a free-text field before storage:
// it trims whitespace, removes script tags, then drops the literal
// characters < > " ' &. Applying Sanitize twice yields the same result as
// applying it once. Never applied to passwords or numeric vitals fields.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = scriptTagRegex.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', '&':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
