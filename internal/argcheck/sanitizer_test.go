package argcheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nest builds an object nested to the given depth with a string leaf.
func nest(depth int, leaf interface{}) interface{} {
	value := leaf
	for i := 0; i < depth; i++ {
		value = map[string]interface{}{"child": value}
	}
	return value
}

func TestSanitize_DepthLimit(t *testing.T) {
	t.Run("depth 11 exceeds custom limit 5", func(t *testing.T) {
		s := NewSanitizer(SanitizerOptions{MaxDepth: 5})
		_, err := s.Sanitize(nest(11, "leaf"))
		require.Error(t, err)

		var sanErr *SanitizationError
		require.True(t, errors.As(err, &sanErr))
		assert.Equal(t, IssueDepthLimit, sanErr.Issues[0].Category)
	})

	t.Run("depth 10 passes default limit", func(t *testing.T) {
		s := NewSanitizer(SanitizerOptions{})
		issues, err := s.Sanitize(nest(10, "leaf"))
		assert.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("depth 11 exceeds default limit", func(t *testing.T) {
		s := NewSanitizer(SanitizerOptions{})
		_, err := s.Sanitize(nest(11, "leaf"))
		assert.Error(t, err)
	})
}

func TestSanitize_DangerousPatterns(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"union select", "1 UNION SELECT password FROM users"},
		{"drop table", "x'; DROP TABLE users"},
		{"sql comment", "admin'--"},
		{"script tag", "<script>alert(1)</script>"},
		{"javascript url", "javascript:alert(1)"},
		{"shell substitution", "$(cat /etc/passwd)"},
		{"backticks", "`id`"},
		{"shell chaining", "x; rm -rf /"},
		{"path traversal", "../../../../etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSanitizer(SanitizerOptions{})
			issues, err := s.Sanitize(map[string]interface{}{"input": tt.value})

			// Warning mode: flagged but not rejected.
			assert.NoError(t, err)
			require.NotEmpty(t, issues)
			assert.Equal(t, IssueDangerousPattern, issues[0].Category)
			assert.Equal(t, "input", issues[0].Path)
		})
	}
}

func TestSanitize_StrictModeRejects(t *testing.T) {
	s := NewSanitizer(SanitizerOptions{Strict: true})
	_, err := s.Sanitize(map[string]interface{}{"q": "1 UNION SELECT *"})
	require.Error(t, err)

	var sanErr *SanitizationError
	require.True(t, errors.As(err, &sanErr))
	assert.Equal(t, IssueDangerousPattern, sanErr.Issues[0].Category)
}

func TestSanitize_CleanInputPasses(t *testing.T) {
	s := NewSanitizer(SanitizerOptions{Strict: true})
	issues, err := s.Sanitize(map[string]interface{}{
		"city":  "San Francisco",
		"days":  float64(3),
		"tags":  []interface{}{"weather", "forecast"},
		"notes": "Includes wind-chill & humidity (approx.)",
	})
	assert.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSanitize_ChecksMapKeys(t *testing.T) {
	s := NewSanitizer(SanitizerOptions{})
	issues, err := s.Sanitize(map[string]interface{}{
		"<script>": "harmless value",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestEscapeShellArg(t *testing.T) {
	assert.Equal(t, `'plain'`, EscapeShellArg("plain"))
	assert.Equal(t, `'it'\''s'`, EscapeShellArg("it's"))
	assert.Equal(t, `'$(id)'`, EscapeShellArg("$(id)"))
}

func TestEscapeSQLLiteral(t *testing.T) {
	assert.Equal(t, "O''Brien", EscapeSQLLiteral("O'Brien"))
	assert.Equal(t, "clean", EscapeSQLLiteral("cl\x00ean"))
}
