package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateEntityID creates a short, human-readable identifier.
// Format: {prefix}-{8charHexUUID}
//
// Example:
//   - Input: prefix="corn"
//   - Output: "corn-a3f8e2b1"
//
// Prefixes are lowercased and spaces become underscores so the result is safe
// to print in tables and logs.
func GenerateEntityID(prefix string) string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	prefix = strings.ReplaceAll(prefix, " ", "_")
	if prefix == "" {
		return generateShortUUID()
	}
	return prefix + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
