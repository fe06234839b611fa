package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestJSONSchema_Export(t *testing.T) {
	s := mustBuild(t, map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{
				"type":        "string",
				"description": "City name",
				"minLength":   1,
			},
			"days": map[string]interface{}{
				"type": "integer",
				"min":  1,
				"max":  14,
			},
		},
		"required": []interface{}{"city"},
	})

	out := s.JSONSchema()
	assert.Equal(t, "object", out["type"])
	assert.Equal(t, []string{"city"}, out["required"])
	assert.Equal(t, false, out["additionalProperties"])

	props := out["properties"].(map[string]interface{})
	city := props["city"].(map[string]interface{})
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City name", city["description"])
	assert.Equal(t, 1, city["minLength"])

	days := props["days"].(map[string]interface{})
	assert.Equal(t, float64(1), days["minimum"])
	assert.Equal(t, float64(14), days["maximum"])
}

// The exported form must behave like real JSON Schema: an independent
// validator applied to the export should agree with our constraint
// semantics.
func TestJSONSchema_CrossCheck(t *testing.T) {
	s := mustBuild(t, map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"age": map[string]interface{}{
				"type": "integer",
				"min":  0,
				"max":  150,
			},
			"tags": map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "string"},
				"minItems": 1,
			},
		},
		"required": []interface{}{"age"},
	})

	loader := gojsonschema.NewGoLoader(s.JSONSchema())

	tests := []struct {
		name  string
		doc   map[string]interface{}
		valid bool
	}{
		{"minimal valid", map[string]interface{}{"age": 0}, true},
		{"upper bound inclusive", map[string]interface{}{"age": 150}, true},
		{"below minimum", map[string]interface{}{"age": -1}, false},
		{"above maximum", map[string]interface{}{"age": 151}, false},
		{"missing required", map[string]interface{}{}, false},
		{"extra property rejected", map[string]interface{}{"age": 1, "ghost": true}, false},
		{"tags honored", map[string]interface{}{"age": 1, "tags": []interface{}{"a"}}, true},
		{"empty tags below minItems", map[string]interface{}{"age": 1, "tags": []interface{}{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid(), "errors: %v", result.Errors())
		})
	}
}
