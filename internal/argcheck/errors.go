package argcheck

import (
	"fmt"
	"strings"
)

// FieldError is one constraint violation, addressed by the path of the
// offending value within the argument object.
type FieldError struct {
	// Path locates the value ("city", "address.street", "tags[2]"); the
	// empty path means the root value itself.
	Path string

	// Message describes the violated constraint.
	Message string
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is the full set of violations found in one validation
// pass. Validation never stops at the first failure: a caller fixing its
// arguments sees every defect at once.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(ve), strings.Join(messages, "; "))
}

// HasErrors returns true if any violation was recorded.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

func (ve *ValidationErrors) add(path, messageFmt string, args ...interface{}) {
	*ve = append(*ve, FieldError{Path: path, Message: fmt.Sprintf(messageFmt, args...)})
}

// Sanitization issue categories.
const (
	IssueDepthLimit       = "depth-limit"
	IssueDangerousPattern = "dangerous-pattern"
)

// SanitizationIssue is one suspicious finding from the input sanitizer.
type SanitizationIssue struct {
	Path     string
	Category string
	Message  string
}

func (i SanitizationIssue) Error() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Category, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Path, i.Category, i.Message)
}

// SanitizationError aborts a strict-mode check; it wraps the issues that
// triggered it.
type SanitizationError struct {
	Issues []SanitizationIssue
}

func (e *SanitizationError) Error() string {
	if len(e.Issues) == 1 {
		return "input rejected: " + e.Issues[0].Error()
	}
	var messages []string
	for _, issue := range e.Issues {
		messages = append(messages, issue.Error())
	}
	return fmt.Sprintf("input rejected: %d issues: %s", len(e.Issues), strings.Join(messages, "; "))
}
