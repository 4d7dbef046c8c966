package submission

import "strings"

// Placeholder tokens mark fields the submitter still has to fill in.
const (
	RequiredValue         = "(REQUIRED)"
	RequiredIfExistsValue = "(REQUIRED, IF EXISTS)"
	OptionalValue         = "(OPTIONAL)"
)

// IsPlaceholder reports whether value is one of the placeholder tokens.
func IsPlaceholder(value string) bool {
	switch strings.TrimSpace(value) {
	case RequiredValue, RequiredIfExistsValue, OptionalValue:
		return true
	}
	return false
}

// IsUnset reports whether value carries no real data.
func IsUnset(value string) bool {
	return strings.TrimSpace(value) == "" || IsPlaceholder(value)
}

// Placeholder returns token when placeholders are enabled and "" otherwise.
func Placeholder(enabled bool, token string) string {
	if !enabled {
		return ""
	}
	return token
}
