package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the default maximum length for descriptions
// in formatted output.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the minimum maxLen value for TruncateDescription.
// Smaller values would not leave room for content plus "...".
const MinTruncateLen = 4

// TruncateDescription collapses a string to a single line of at most
// maxLen characters, appending "..." when truncated. It operates on runes
// so multi-byte characters are never split.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
