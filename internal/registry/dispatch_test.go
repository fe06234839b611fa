package registry

import (
	"context"
	"testing"

	"capstan/internal/argcheck"
	"capstan/internal/extract"
	"capstan/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatcherFixture(t *testing.T) (*Registry, *Dispatcher) {
	t.Helper()
	reg := New(nil)

	s, err := schema.NewBuilder(nil).Build(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{"type": "string", "minLength": 1},
			"days": map[string]interface{}{"type": "integer", "min": 1, "max": 14},
		},
		"required": []interface{}{"city"},
	})
	require.NoError(t, err)

	weather := operation("get_weather")
	weather.Schema = s
	weather.HasSchema = true
	require.NoError(t, reg.Register(weather))
	require.NoError(t, reg.Register(operation("get_forecast")))

	router := &Capability{
		Kind:        extract.KindRouter,
		Name:        "weather_router",
		CallName:    "weatherRouter",
		Description: "Weather operations",
		Members:     []string{"get_weather", "get_forecast"},
	}
	require.NoError(t, reg.Register(router))

	d := NewDispatcher(reg, argcheck.CheckerOptions{})
	d.Bind("get_weather", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"city": args["city"], "days": args["days"]}, nil
	})
	d.Bind("get_forecast", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return "forecast", nil
	})
	return reg, d
}

func TestInvoke_FullPipeline(t *testing.T) {
	_, d := dispatcherFixture(t)

	result, err := d.Invoke(context.Background(), "get_weather", map[string]interface{}{
		"city": "Berlin",
		"days": float64(3),
	})
	require.NoError(t, err)

	out := result.Output.(map[string]interface{})
	assert.Equal(t, "Berlin", out["city"])
	assert.Equal(t, int64(3), out["days"], "handler sees normalized arguments")
	assert.Empty(t, result.Warnings)
}

func TestInvoke_ValidationFailure(t *testing.T) {
	_, d := dispatcherFixture(t)

	_, err := d.Invoke(context.Background(), "get_weather", map[string]interface{}{
		"days": float64(3),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}

func TestInvoke_UnknownCapability(t *testing.T) {
	_, d := dispatcherFixture(t)

	_, err := d.Invoke(context.Background(), "get_wether", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestInvoke_DocumentNotInvocable(t *testing.T) {
	reg, d := dispatcherFixture(t)
	doc := &Capability{Kind: extract.KindDocument, Name: "guide", Description: "d"}
	require.NoError(t, reg.Register(doc))

	_, err := d.Invoke(context.Background(), "guide", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be invoked")
}

func TestInvoke_UnboundHandler(t *testing.T) {
	reg, d := dispatcherFixture(t)
	require.NoError(t, reg.Register(operation("orphan_op")))

	_, err := d.Invoke(context.Background(), "orphan_op", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler bound")
}

func TestInvoke_Router(t *testing.T) {
	_, d := dispatcherFixture(t)

	t.Run("dispatches to member", func(t *testing.T) {
		result, err := d.Invoke(context.Background(), "weather_router", map[string]interface{}{
			"operation": "get_forecast",
		})
		require.NoError(t, err)
		assert.Equal(t, "forecast", result.Output)
	})

	t.Run("member selection tolerates spelling variants", func(t *testing.T) {
		result, err := d.Invoke(context.Background(), "weather_router", map[string]interface{}{
			"operation": "getForecast",
		})
		require.NoError(t, err)
		assert.Equal(t, "forecast", result.Output)
	})

	t.Run("nested arguments reach the member", func(t *testing.T) {
		result, err := d.Invoke(context.Background(), "weather_router", map[string]interface{}{
			"operation": "get_weather",
			"arguments": map[string]interface{}{"city": "Oslo", "days": float64(1)},
		})
		require.NoError(t, err)
		assert.Equal(t, "Oslo", result.Output.(map[string]interface{})["city"])
	})

	t.Run("missing operation argument", func(t *testing.T) {
		_, err := d.Invoke(context.Background(), "weather_router", map[string]interface{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"operation"`)
	})

	t.Run("unknown member gets suggestions", func(t *testing.T) {
		_, err := d.Invoke(context.Background(), "weather_router", map[string]interface{}{
			"operation": "get_wether",
		})
		require.Error(t, err)
		regErr := err.(*RegistryError)
		assert.Contains(t, regErr.Suggestions, "get_weather")
		assert.Equal(t, []string{"get_forecast", "get_weather"}, regErr.Valid)
	})

	t.Run("registry name outside the router is rejected", func(t *testing.T) {
		// my_extra is registered but not a member of the router.
		reg, dd := dispatcherFixture(t)
		require.NoError(t, reg.Register(operation("my_extra")))
		_, err := dd.Invoke(context.Background(), "weather_router", map[string]interface{}{
			"operation": "my_extra",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such member")
	})
}

func TestInvoke_WarningsSurfaced(t *testing.T) {
	_, d := dispatcherFixture(t)

	result, err := d.Invoke(context.Background(), "get_weather", map[string]interface{}{
		"city": "x'; DROP TABLE users",
	})
	require.NoError(t, err, "warning mode lets flagged input through")
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, argcheck.IssueDangerousPattern, result.Warnings[0].Category)
}

func TestInvoke_StrictSanitizerRejects(t *testing.T) {
	reg, _ := dispatcherFixture(t)
	d := NewDispatcher(reg, argcheck.CheckerOptions{
		Sanitizer: argcheck.SanitizerOptions{Strict: true},
	})
	d.Bind("get_weather", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return nil, nil
	})

	_, err := d.Invoke(context.Background(), "get_weather", map[string]interface{}{
		"city": "x'; DROP TABLE users",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input rejected")
}

func TestInvoke_ConfiguredOrderChangesFailure(t *testing.T) {
	// Type-invalid city plus a flagged string fail both phases; the error
	// the caller sees must come from whichever phase the options run first.
	args := map[string]interface{}{
		"city": float64(42),
		"note": "x'; DROP TABLE users",
	}

	t.Run("sanitize first", func(t *testing.T) {
		reg, _ := dispatcherFixture(t)
		d := NewDispatcher(reg, argcheck.CheckerOptions{
			Sanitizer: argcheck.SanitizerOptions{Strict: true},
		})
		_, err := d.Invoke(context.Background(), "get_weather", args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input rejected")
	})

	t.Run("validate first", func(t *testing.T) {
		reg, _ := dispatcherFixture(t)
		d := NewDispatcher(reg, argcheck.CheckerOptions{
			Order:     argcheck.ValidateFirst,
			Sanitizer: argcheck.SanitizerOptions{Strict: true},
		})
		_, err := d.Invoke(context.Background(), "get_weather", args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected string")
		assert.NotContains(t, err.Error(), "input rejected")
	})
}
