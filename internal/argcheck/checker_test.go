package argcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherChecker(t *testing.T, opts CheckerOptions) *Checker {
	t.Helper()
	s := mustSchema(t, map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{"type": "string", "minLength": 1},
			"days": map[string]interface{}{"type": "integer", "min": 1, "max": 14},
		},
		"required": []interface{}{"city"},
	})
	return NewChecker(s, NewCache(), opts)
}

func TestCheck_Success(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{})

	result := c.Check(map[string]interface{}{"city": "Berlin", "days": float64(3)})
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	data := result.Data.(map[string]interface{})
	assert.Equal(t, "Berlin", data["city"])
	assert.Equal(t, int64(3), data["days"], "integer normalization applies")
}

func TestCheck_ValidationFailureAsData(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{})

	result := c.Check(map[string]interface{}{"city": "", "days": float64(20)})
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Len(t, result.Errors, 2, "all violations reported: %v", result.Errors)
}

func TestCheck_WarningModeFlagsWithoutFailing(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{})

	result := c.Check(map[string]interface{}{"city": "x'; DROP TABLE users"})
	assert.True(t, result.Success, "warning mode lets flagged input through")
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, IssueDangerousPattern, result.Warnings[0].Category)
}

func TestCheck_StrictModeRejects(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{
		Sanitizer: SanitizerOptions{Strict: true},
	})

	result := c.Check(map[string]interface{}{"city": "x'; DROP TABLE users"})
	assert.False(t, result.Success)
	require.NotNil(t, result.Rejected)
	assert.Contains(t, result.Failure().Error(), "input rejected")
}

func TestCheck_ValidateFirstOrderStillSanitizes(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{
		Order:     ValidateFirst,
		Sanitizer: SanitizerOptions{Strict: true},
	})

	result := c.Check(map[string]interface{}{"city": "$(id)"})
	assert.False(t, result.Success)
	assert.NotNil(t, result.Rejected)
}

func TestCheck_FailureFollowsConfiguredOrder(t *testing.T) {
	// Type-invalid city plus a flagged string: both phases fail, and the
	// reported failure must come from whichever phase ran first.
	args := map[string]interface{}{
		"city": float64(42),
		"note": "x'; DROP TABLE users",
	}

	t.Run("sanitize first reports rejection", func(t *testing.T) {
		c := weatherChecker(t, CheckerOptions{
			Sanitizer: SanitizerOptions{Strict: true},
		})
		result := c.Check(args)
		require.False(t, result.Success)
		assert.Contains(t, result.Failure().Error(), "input rejected")
	})

	t.Run("validate first reports type error", func(t *testing.T) {
		c := weatherChecker(t, CheckerOptions{
			Order:     ValidateFirst,
			Sanitizer: SanitizerOptions{Strict: true},
		})
		result := c.Check(args)
		require.False(t, result.Success)
		assert.Contains(t, result.Failure().Error(), "expected string")
		assert.NotNil(t, result.Rejected, "sanitizer still ran")
	})
}

func TestCheckerFor_NilValidatorSanitizesOnly(t *testing.T) {
	c := CheckerFor(nil, CheckerOptions{Sanitizer: SanitizerOptions{Strict: true}})

	result := c.Check(map[string]interface{}{"anything": float64(1)})
	require.True(t, result.Success)
	assert.NotNil(t, result.Data)

	result = c.Check(map[string]interface{}{"cmd": "$(id)"})
	assert.False(t, result.Success)
	assert.NotNil(t, result.Rejected)
}

func TestMustCheck(t *testing.T) {
	c := weatherChecker(t, CheckerOptions{})

	t.Run("returns normalized data", func(t *testing.T) {
		data, err := c.MustCheck(map[string]interface{}{"city": "Berlin", "days": float64(2)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), data["days"])
	})

	t.Run("returns validation errors", func(t *testing.T) {
		_, err := c.MustCheck(map[string]interface{}{"days": float64(2)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "city")
	})
}
