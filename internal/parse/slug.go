package parse

import (
	"strings"

	"github.com/gosimple/slug"
)

// SlugMaxLength bounds the length of derived slugs.
const SlugMaxLength = 256

// Slug derives a URL-safe identifier from a title, transliterating non-Latin scripts.
// "Ocean View" becomes "ocean-view".
func Slug(title string) string {
	s := slug.Make(strings.TrimSpace(title))
	if len(s) > SlugMaxLength {
		s = strings.TrimRight(s[:SlugMaxLength], "-")
	}
	return s
}

// IsSlug reports whether s is already a well-formed slug.
func IsSlug(s string) bool {
	return len(s) <= SlugMaxLength && slug.IsSlug(s)
}
