package testfixtures

import (
	"strings"

	"hrdesk/internal/domain/listing"
)

func paginate[T any](items []T, page listing.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := min(start+page.Limit, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
