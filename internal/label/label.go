package label

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Header cleans a column header so sheets typed with stray spaces or
// full-width characters still match the expected column names.
func Header(name string) string {
	return strings.TrimSpace(norm.NFKC.String(name))
}

// Value cleans a grouping value such as a platform or niche name. Case is
// preserved; only surrounding whitespace and width variants are folded.
func Value(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return norm.NFKC.String(trimmed)
}
