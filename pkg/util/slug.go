package util

import (
	"fmt"
	"strings"
)

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen. The result contains only [a-z0-9-] with no
// leading or trailing hyphen; it may be empty.
func Slugify(input string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// DisambiguateSlug returns the candidate slug for the given attempt number:
// the base slug itself first, then base-2, base-3 and so on.
func DisambiguateSlug(slug string, attempt int) string {
	if attempt <= 1 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, attempt)
}
