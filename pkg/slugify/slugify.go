// Package slugify derives URL-safe store identifiers from display names.
package slugify

import (
	"fmt"
	"regexp"

	"github.com/gosimple/slug"
)

// Base returns the lowercase, ASCII-safe, hyphen-separated form of name.
func Base(name string) string {
	return slug.Make(name)
}

// MatchExpr returns the POSIX regular expression used to count existing slugs
// that share a base: the base itself or the base followed by a numeric suffix.
// Matching is done case-insensitively by the caller (Postgres ~*).
func MatchExpr(base string) string {
	return "^" + regexp.QuoteMeta(base) + "(-[0-9]*)?$"
}

// Pattern compiles MatchExpr for in-process matching.
func Pattern(base string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + MatchExpr(base))
}

// Next picks the final slug given how many existing slugs matched the base
// pattern. Zero matches keeps the base; N matches yields "base-(N+1)", so
// repeated creations produce base, base-2, base-3, ...
//
// Uniqueness holds only if the count and the subsequent insert do not
// interleave with a concurrent creation of the same base. That race is
// accepted; see DESIGN.md.
func Next(base string, matches int) string {
	if matches == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, matches+1)
}
