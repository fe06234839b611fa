package declare

import (
	"testing"

	"capstan/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(name, description string) extract.RawDeclaration {
	return extract.RawDeclaration{
		Kind:        extract.KindOperation,
		Name:        name,
		Description: description,
	}
}

func TestValidateUnit_NamingConvention(t *testing.T) {
	tests := []struct {
		name      string
		declName  string
		wantError bool
	}{
		{"simple snake case", "get_weather", false},
		{"single segment", "weather", false},
		{"digits after first char", "v2_rollout", false},
		{"consecutive underscores", "a__b", false},
		{"trailing underscore", "weather_", false},
		{"camelCase", "getWeather", true},
		{"PascalCase", "GetWeather", true},
		{"hyphenated", "get-weather", true},
		{"leading digit", "2fast", true},
		{"leading underscore", "_private", true},
		{"embedded space", "get weather", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := ValidateUnit([]extract.RawDeclaration{op(tt.declName, "desc")})
			if tt.wantError {
				require.True(t, errs.HasErrors())
				assert.Empty(t, valid)

				// Exactly one naming error per offending declaration.
				var nameErrs int
				for _, e := range errs {
					if e.Category == CategoryNameFormat {
						nameErrs++
					}
				}
				assert.Equal(t, 1, nameErrs)
			} else {
				assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
				assert.Len(t, valid, 1)
			}
		})
	}
}

func TestValidateUnit_MissingName(t *testing.T) {
	_, errs := ValidateUnit([]extract.RawDeclaration{op("", "desc")})
	require.True(t, errs.HasErrors())
	assert.Equal(t, CategoryMissingField, errs[0].Category)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidateUnit_MissingDescription(t *testing.T) {
	t.Run("operation", func(t *testing.T) {
		_, errs := ValidateUnit([]extract.RawDeclaration{op("my_op", "  ")})
		require.True(t, errs.HasErrors())
		assert.Equal(t, CategoryMissingField, errs[0].Category)
		assert.Contains(t, errs[0].Message, "documents the capability")
	})

	t.Run("skill mentions trigger phrase", func(t *testing.T) {
		skill := extract.RawDeclaration{
			Kind:   extract.KindSkill,
			Name:   "my_skill",
			Manual: "some docs",
		}
		_, errs := ValidateUnit([]extract.RawDeclaration{skill})
		require.True(t, errs.HasErrors())
		assert.Contains(t, errs[0].Message, "trigger phrase")
	})
}

func TestValidateUnit_SkillContentExclusivity(t *testing.T) {
	base := extract.RawDeclaration{
		Kind:        extract.KindSkill,
		Name:        "my_skill",
		Description: "Use when asked",
	}

	t.Run("manual only is valid", func(t *testing.T) {
		skill := base
		skill.Manual = "docs"
		valid, errs := ValidateUnit([]extract.RawDeclaration{skill})
		assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
		assert.Len(t, valid, 1)
	})

	t.Run("auto only is valid", func(t *testing.T) {
		skill := base
		skill.Auto = &extract.AutoContent{Operations: []string{"get_weather"}}
		valid, errs := ValidateUnit([]extract.RawDeclaration{skill})
		assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
		assert.Len(t, valid, 1)
	})

	t.Run("both fails", func(t *testing.T) {
		skill := base
		skill.Manual = "docs"
		skill.Auto = &extract.AutoContent{Operations: []string{"get_weather"}}
		_, errs := ValidateUnit([]extract.RawDeclaration{skill})
		require.True(t, errs.HasErrors())
		assert.Equal(t, CategoryExclusiveContent, errs[0].Category)
		assert.Contains(t, errs[0].Message, "mutually exclusive")
	})

	t.Run("neither fails with distinct message", func(t *testing.T) {
		skill := base
		_, errs := ValidateUnit([]extract.RawDeclaration{skill})
		require.True(t, errs.HasErrors())
		assert.Equal(t, CategoryExclusiveContent, errs[0].Category)
		assert.Contains(t, errs[0].Message, "no content source")
	})

	t.Run("empty auto lists count as absent", func(t *testing.T) {
		skill := base
		skill.Auto = &extract.AutoContent{}
		_, errs := ValidateUnit([]extract.RawDeclaration{skill})
		require.True(t, errs.HasErrors())
		assert.Contains(t, errs[0].Message, "no content source")
	})
}

func TestValidateUnit_InlineLiteralRejection(t *testing.T) {
	t.Run("root object is allowed", func(t *testing.T) {
		decl := op("my_op", "desc")
		decl.Params = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city": map[string]interface{}{"type": "string"},
			},
		}
		valid, errs := ValidateUnit([]extract.RawDeclaration{decl})
		assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
		assert.Len(t, valid, 1)
	})

	t.Run("nested inline object rejected with field path", func(t *testing.T) {
		decl := op("my_op", "desc")
		decl.Params = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"address": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"street": map[string]interface{}{"type": "string"},
					},
				},
			},
		}
		_, errs := ValidateUnit([]extract.RawDeclaration{decl})
		require.True(t, errs.HasErrors())
		assert.Equal(t, CategoryInlineLiteral, errs[0].Category)
		assert.Equal(t, "params.properties.address", errs[0].Field)
	})

	t.Run("nested reference accepted", func(t *testing.T) {
		decl := op("my_op", "desc")
		decl.Params = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"address": map[string]interface{}{"$ref": "address"},
			},
		}
		valid, errs := ValidateUnit([]extract.RawDeclaration{decl})
		assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
		assert.Len(t, valid, 1)
	})

	t.Run("nested inline array rejected", func(t *testing.T) {
		decl := op("my_op", "desc")
		decl.Params = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"tags": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
		}
		_, errs := ValidateUnit([]extract.RawDeclaration{decl})
		require.True(t, errs.HasErrors())
		assert.Equal(t, CategoryInlineLiteral, errs[0].Category)
	})

	t.Run("schema declaration root array allowed", func(t *testing.T) {
		decl := extract.RawDeclaration{
			Kind:        extract.KindSchema,
			Name:        "tag_list",
			Description: "List of tags",
			Schema: map[string]interface{}{
				"type":     "array",
				"items":    map[string]interface{}{"type": "string"},
				"minItems": 1,
			},
		}
		valid, errs := ValidateUnit([]extract.RawDeclaration{decl})
		assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
		assert.Len(t, valid, 1)
	})
}

func TestValidateUnit_StrayConstraints(t *testing.T) {
	decl := op("my_op", "desc")
	decl.Params = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"age": map[string]interface{}{
				"type":      "integer",
				"minLength": 1, // string constraint on an integer node
			},
		},
	}
	_, errs := ValidateUnit([]extract.RawDeclaration{decl})
	require.True(t, errs.HasErrors())
	assert.Equal(t, CategoryStrayConstraint, errs[0].Category)
	assert.Contains(t, errs[0].Field, "minLength")
}

func TestValidateUnit_UnknownKind(t *testing.T) {
	decl := extract.RawDeclaration{Kind: "widget", Name: "my_widget", Description: "desc"}
	_, errs := ValidateUnit([]extract.RawDeclaration{decl})
	require.True(t, errs.HasErrors())
	assert.Equal(t, CategoryUnknownKind, errs[0].Category)
}

func TestValidateUnit_AccumulatesAcrossDeclarations(t *testing.T) {
	decls := []extract.RawDeclaration{
		op("BadName", "desc"),
		op("good_op", "desc"),
		op("also-bad", ""),
	}

	valid, errs := ValidateUnit(decls)
	assert.Len(t, valid, 1)
	assert.Equal(t, "good_op", valid[0].Name)

	// One naming error for each bad declaration plus the missing
	// description, all reported together.
	assert.Len(t, errs.ForScope("BadName"), 1)
	assert.Len(t, errs.ForScope("also-bad"), 2)
}

func TestValidateUnit_ExtractionProblemsSurfaceAsMalformed(t *testing.T) {
	decl := extract.RawDeclaration{
		Kind:        extract.KindRouter,
		Name:        "my_router",
		Description: "desc",
		Problems:    []string{"unparseable declaration: bad indent"},
	}
	_, errs := ValidateUnit([]extract.RawDeclaration{decl})
	require.True(t, errs.HasErrors())
	assert.Equal(t, CategoryMalformed, errs[0].Category)
}
