// Package sanitize strips unsafe markup from user-supplied text before it is
// persisted. Every free-text field of a store (name, description, address)
// and every review body passes through here on each write.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML elements from s, escapes the remaining markup
// characters, and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// Texts sanitizes each string in place and returns the slice.
func Texts(values []string) []string {
	for i, v := range values {
		values[i] = Text(v)
	}
	return values
}
