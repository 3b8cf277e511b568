package middleware

import (
	"strconv"
	"strings"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// ValidateImage only checks presence; the provider judges the image itself.
func ValidateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return analysis.ErrMissingInput
	}
	return nil
}

// ValidateLimit parses a history limit and clamps it to 1..RecentLimit. Empty or
// unparseable input gives the default.
func ValidateLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return analysis.RecentLimit
	}
	if limit > analysis.RecentLimit {
		return analysis.RecentLimit
	}
	return limit
}
