package services

import (
	"regexp"
)

// RecipientVariable is always bound to the current recipient's name
const RecipientVariable = "recipient"

// BodyPreviewLength is the number of characters kept in a log's body preview
const BodyPreviewLength = 200

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Render substitutes {{name}} placeholders with values from vars.
// Unknown placeholders are left as written and values are inserted without escaping.
func Render(body string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}

// BuildVariables copies vars and binds RecipientVariable to recipientName, overriding any caller value
func BuildVariables(vars map[string]string, recipientName string) map[string]string {
	merged := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		merged[k] = v
	}
	merged[RecipientVariable] = recipientName
	return merged
}

// Preview returns at most limit characters of body
func Preview(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit])
}
