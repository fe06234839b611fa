package argcheck

import (
	"fmt"
	"regexp"
)

// DefaultMaxDepth bounds the sanitizer's recursive walk. Arguments nested
// deeper than this are rejected outright: no legitimate capability call
// needs them, and unbounded recursion is itself an attack surface.
const DefaultMaxDepth = 10

// dangerousPatterns are heuristics for injection payloads hidden in string
// arguments. They flag, they do not prove: in warning mode a match is
// surfaced to the caller and the value passes through unchanged.
var dangerousPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"sql keywords", regexp.MustCompile(`(?i)\b(union\s+select|drop\s+table|truncate\s+table|insert\s+into|delete\s+from|exec\s*\()`)},
	{"sql comment", regexp.MustCompile(`(--|/\*|\*/|;\s*--)`)},
	{"script tag", regexp.MustCompile(`(?i)(<script\b|</script>|javascript:|\bon(load|error|click)\s*=)`)},
	{"shell substitution", regexp.MustCompile("(\\$\\(|`)")},
	{"shell chaining", regexp.MustCompile(`(\|\||&&|;\s*(rm|curl|wget|sh|bash)\b)`)},
	{"path traversal", regexp.MustCompile(`\.\./\.\./`)},
}

// SanitizerOptions configure a sanitizer.
type SanitizerOptions struct {
	// MaxDepth bounds the recursive walk; zero means DefaultMaxDepth.
	MaxDepth int

	// Strict rejects input on any dangerous-pattern match. The default
	// (warning mode) records issues and lets the value through; depth
	// violations reject in both modes.
	Strict bool
}

// Sanitizer inspects argument values for injection payloads and runaway
// nesting before validation sees them.
type Sanitizer struct {
	maxDepth int
	strict   bool
}

// NewSanitizer creates a sanitizer with the given options.
func NewSanitizer(opts SanitizerOptions) *Sanitizer {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Sanitizer{maxDepth: maxDepth, strict: opts.Strict}
}

// Sanitize walks a value and returns the issues found. In strict mode any
// issue produces a SanitizationError; in warning mode only depth
// violations do, and pattern matches come back as warnings.
func (s *Sanitizer) Sanitize(value interface{}) ([]SanitizationIssue, error) {
	var issues []SanitizationIssue
	s.walk(value, "", 0, &issues)

	var fatal []SanitizationIssue
	for _, issue := range issues {
		if issue.Category == IssueDepthLimit || s.strict {
			fatal = append(fatal, issue)
		}
	}
	if len(fatal) > 0 {
		return issues, &SanitizationError{Issues: fatal}
	}
	return issues, nil
}

func (s *Sanitizer) walk(value interface{}, path string, depth int, issues *[]SanitizationIssue) {
	if depth > s.maxDepth {
		*issues = append(*issues, SanitizationIssue{
			Path:     path,
			Category: IssueDepthLimit,
			Message:  fmt.Sprintf("nesting depth exceeds limit %d", s.maxDepth),
		})
		return
	}

	switch v := value.(type) {
	case string:
		s.checkString(v, path, issues)
	case []interface{}:
		for i, item := range v {
			s.walk(item, fmt.Sprintf("%s[%d]", path, i), depth+1, issues)
		}
	case map[string]interface{}:
		for key, item := range v {
			s.checkString(key, joinPath(path, key), issues)
			s.walk(item, joinPath(path, key), depth+1, issues)
		}
	}
}

func (s *Sanitizer) checkString(value, path string, issues *[]SanitizationIssue) {
	for _, pattern := range dangerousPatterns {
		if pattern.re.MatchString(value) {
			*issues = append(*issues, SanitizationIssue{
				Path:     path,
				Category: IssueDangerousPattern,
				Message:  fmt.Sprintf("value matches %s heuristic", pattern.label),
			})
		}
	}
}
