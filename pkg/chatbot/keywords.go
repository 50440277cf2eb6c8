package chatbot

import (
	"strings"

	"github.com/admitdesk/admitdesk/pkg/models"
)

const keywordSeparator = ","

// ParseKeywords splits a comma-separated keyword field into trimmed, lowercase tokens,
// preserving order. Duplicates are kept. Empty tokens are dropped.
func ParseKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, keywordSeparator)
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		k := strings.ToLower(strings.TrimSpace(p))
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
	}
	return keywords
}

// ValidateKeywords rejects keyword fields containing an empty token, e.g. a trailing
// comma or ", ,". An empty token would be a substring of every query.
// A blank field is allowed: such a category matches nothing.
func ValidateKeywords(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	for _, p := range strings.Split(raw, keywordSeparator) {
		if strings.TrimSpace(p) == "" {
			return models.NewValidationError(
				"keywords",
				"Keywords must be a comma-separated list without empty entries.",
			)
		}
	}
	return nil
}
