package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SimpleObject(t *testing.T) {
	b := NewBuilder(nil)
	s, err := b.Build(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
			"days": map[string]interface{}{
				"type": "integer",
				"min":  1,
				"max":  14,
			},
		},
		"required": []interface{}{"city"},
	})
	require.NoError(t, err)

	root := s.Arena.Node(s.Root)
	assert.Equal(t, TypeObject, root.Type)
	assert.Equal(t, []string{"city", "days"}, root.PropertyOrder)
	assert.Equal(t, []string{"city"}, root.Required)
	assert.False(t, root.AdditionalProperties)

	city := s.Arena.Node(root.Properties["city"])
	require.NotNil(t, city.MinLength)
	assert.Equal(t, 1, *city.MinLength)

	days := s.Arena.Node(root.Properties["days"])
	require.NotNil(t, days.Minimum)
	assert.Equal(t, float64(1), *days.Minimum)
	require.NotNil(t, days.Maximum)
	assert.Equal(t, float64(14), *days.Maximum)
}

func TestBuild_NumericAliases(t *testing.T) {
	tests := []struct {
		name string
		tree map[string]interface{}
		want func(t *testing.T, n *Node)
	}{
		{
			name: "short aliases",
			tree: map[string]interface{}{"type": "number", "min": 0, "max": 150},
			want: func(t *testing.T, n *Node) {
				assert.Equal(t, float64(0), *n.Minimum)
				assert.Equal(t, float64(150), *n.Maximum)
			},
		},
		{
			name: "json schema names",
			tree: map[string]interface{}{"type": "number", "minimum": 0.5, "maximum": 1.5},
			want: func(t *testing.T, n *Node) {
				assert.Equal(t, 0.5, *n.Minimum)
				assert.Equal(t, 1.5, *n.Maximum)
			},
		},
		{
			name: "exclusive bounds",
			tree: map[string]interface{}{"type": "number", "exclusiveMin": 0, "exclusiveMaximum": 100},
			want: func(t *testing.T, n *Node) {
				assert.Equal(t, float64(0), *n.ExclusiveMinimum)
				assert.Equal(t, float64(100), *n.ExclusiveMaximum)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewBuilder(nil).Build(tt.tree)
			require.NoError(t, err)
			tt.want(t, s.Arena.Node(s.Root))
		})
	}
}

func TestBuild_NamedReferenceSharing(t *testing.T) {
	named := map[string]map[string]interface{}{
		"address": {
			"type": "object",
			"properties": map[string]interface{}{
				"street": map[string]interface{}{"type": "string"},
			},
		},
	}
	b := NewBuilder(named)

	s, err := b.Build(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"home": map[string]interface{}{"$ref": "address"},
			"work": map[string]interface{}{"$ref": "address"},
		},
	})
	require.NoError(t, err)

	root := s.Arena.Node(s.Root)
	assert.Equal(t, root.Properties["home"], root.Properties["work"],
		"both references should resolve to the same arena node")
}

func TestBuild_UnknownReferenceListsKnownNames(t *testing.T) {
	named := map[string]map[string]interface{}{
		"address": {"type": "string"},
		"contact": {"type": "string"},
	}
	_, err := NewBuilder(named).Build(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"home": map[string]interface{}{"$ref": "adress"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"adress"`)
	assert.Contains(t, err.Error(), "address, contact")
}

func TestBuild_ReferenceCycleRejected(t *testing.T) {
	named := map[string]map[string]interface{}{
		"node": {
			"type": "object",
			"properties": map[string]interface{}{
				"next": map[string]interface{}{"$ref": "node"},
			},
		},
	}
	_, err := NewBuilder(named).BuildRef("node")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_MutualReferenceCycleRejected(t *testing.T) {
	named := map[string]map[string]interface{}{
		"a": {
			"type": "object",
			"properties": map[string]interface{}{
				"b": map[string]interface{}{"$ref": "b"},
			},
		},
		"b": {
			"type": "object",
			"properties": map[string]interface{}{
				"a": map[string]interface{}{"$ref": "a"},
			},
		},
	}
	_, err := NewBuilder(named).BuildRef("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tree    map[string]interface{}
		message string
	}{
		{
			name:    "missing type",
			tree:    map[string]interface{}{"minLength": 1},
			message: "no type",
		},
		{
			name:    "unknown type",
			tree:    map[string]interface{}{"type": "text"},
			message: `unknown type "text"`,
		},
		{
			name:    "invalid pattern",
			tree:    map[string]interface{}{"type": "string", "pattern": "["},
			message: "invalid pattern",
		},
		{
			name:    "fractional minLength",
			tree:    map[string]interface{}{"type": "string", "minLength": 1.5},
			message: "minLength must be an integer",
		},
		{
			name:    "nonpositive multipleOf",
			tree:    map[string]interface{}{"type": "number", "multipleOf": 0},
			message: "multipleOf must be positive",
		},
		{
			name: "undeclared required property",
			tree: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []interface{}{"ghost"},
			},
			message: `"ghost" is not declared`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(nil).Build(tt.tree)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestBuild_ArrayItems(t *testing.T) {
	s, err := NewBuilder(nil).Build(map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string", "enum": []interface{}{"a", "b"}},
		"minItems":    1,
		"maxItems":    5,
		"uniqueItems": true,
	})
	require.NoError(t, err)

	root := s.Arena.Node(s.Root)
	assert.Equal(t, TypeArray, root.Type)
	assert.Equal(t, 1, *root.MinItems)
	assert.Equal(t, 5, *root.MaxItems)
	assert.True(t, root.UniqueItems)

	items := s.Arena.Node(root.Items)
	assert.Equal(t, TypeString, items.Type)
	assert.Len(t, items.Enum, 2)
}

func TestCallName(t *testing.T) {
	tests := []struct {
		declared string
		want     string
	}{
		{"weather_forecast", "weatherForecast"},
		{"get_weather_by_city", "getWeatherByCity"},
		{"weather", "weather"},
		{"v2_rollout", "v2Rollout"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CallName(tt.declared), tt.declared)
	}
}
