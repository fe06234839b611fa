package argcheck

import (
	"fmt"
	"math"
	"reflect"

	"capstan/internal/schema"
)

// Validator is a compiled argument validator for one schema. Validators are
// immutable after Compile and safe for concurrent use.
type Validator struct {
	schema schema.Schema
	hash   uint64
}

// Compile builds a validator from a schema. The schema's content hash is
// captured here so cache lookups never re-walk the tree.
func Compile(s schema.Schema) *Validator {
	return &Validator{schema: s, hash: s.Hash()}
}

// Hash returns the content hash of the compiled schema.
func (v *Validator) Hash() uint64 {
	return v.hash
}

// Schema returns the schema the validator was compiled from.
func (v *Validator) Schema() schema.Schema {
	return v.schema
}

// Validate checks a value against the schema and returns the normalized
// value alongside every violation found. Normalization coerces whole-number
// floats to int64 for integer nodes, so handlers downstream see the type
// the schema declares. The normalized value is only meaningful when the
// error collection is empty.
func (v *Validator) Validate(value interface{}) (interface{}, ValidationErrors) {
	var errs ValidationErrors
	normalized := v.validateNode(v.schema.Root, value, "", &errs)
	return normalized, errs
}

func (v *Validator) validateNode(id schema.NodeID, value interface{}, path string, errs *ValidationErrors) interface{} {
	node := v.schema.Arena.Node(id)

	switch node.Type {
	case schema.TypeString:
		return validateString(node, value, path, errs)
	case schema.TypeNumber:
		return validateNumber(node, value, path, errs)
	case schema.TypeInteger:
		return validateInteger(node, value, path, errs)
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			errs.add(path, "expected boolean, got %s", typeName(value))
		}
		return value
	case schema.TypeNull:
		if value != nil {
			errs.add(path, "expected null, got %s", typeName(value))
		}
		return value
	case schema.TypeArray:
		return v.validateArray(node, value, path, errs)
	case schema.TypeObject:
		return v.validateObject(node, value, path, errs)
	}
	return value
}

func validateString(node *schema.Node, value interface{}, path string, errs *ValidationErrors) interface{} {
	s, ok := value.(string)
	if !ok {
		errs.add(path, "expected string, got %s", typeName(value))
		return value
	}

	length := len([]rune(s))
	if node.MinLength != nil && length < *node.MinLength {
		errs.add(path, "length %d is below minLength %d", length, *node.MinLength)
	}
	if node.MaxLength != nil && length > *node.MaxLength {
		errs.add(path, "length %d exceeds maxLength %d", length, *node.MaxLength)
	}
	if node.Regexp != nil && !node.Regexp.MatchString(s) {
		errs.add(path, "value does not match pattern %q", node.Pattern)
	}
	if len(node.Enum) > 0 && !enumContains(node.Enum, s) {
		errs.add(path, "value %q is not one of the allowed values %v", s, node.Enum)
	}
	return s
}

func validateNumber(node *schema.Node, value interface{}, path string, errs *ValidationErrors) interface{} {
	f, ok := asFloat(value)
	if !ok {
		errs.add(path, "expected number, got %s", typeName(value))
		return value
	}
	checkBounds(node, f, path, errs)
	return f
}

// validateInteger accepts whole-number floats (the only integer form JSON
// decoding produces) and normalizes them to int64. Whole numbers beyond
// the int64 range are rejected rather than normalized: the conversion
// would silently produce a different value.
func validateInteger(node *schema.Node, value interface{}, path string, errs *ValidationErrors) interface{} {
	f, ok := asFloat(value)
	if !ok {
		errs.add(path, "expected integer, got %s", typeName(value))
		return value
	}
	if f != math.Trunc(f) {
		errs.add(path, "expected integer, got fractional number %v", f)
		return value
	}
	// float64(math.MaxInt64) rounds up to 2^63, which itself overflows, so
	// the upper comparison is exclusive.
	if f < math.MinInt64 || f >= float64(math.MaxInt64) {
		errs.add(path, "value %v is outside the 64-bit integer range", f)
		return value
	}
	checkBounds(node, f, path, errs)
	return int64(f)
}

func checkBounds(node *schema.Node, f float64, path string, errs *ValidationErrors) {
	// An exclusive bound governs when both forms are present on a side.
	if node.ExclusiveMinimum != nil {
		if f <= *node.ExclusiveMinimum {
			errs.add(path, "value %v must be greater than %v", f, *node.ExclusiveMinimum)
		}
	} else if node.Minimum != nil && f < *node.Minimum {
		errs.add(path, "value %v is below minimum %v", f, *node.Minimum)
	}

	if node.ExclusiveMaximum != nil {
		if f >= *node.ExclusiveMaximum {
			errs.add(path, "value %v must be less than %v", f, *node.ExclusiveMaximum)
		}
	} else if node.Maximum != nil && f > *node.Maximum {
		errs.add(path, "value %v exceeds maximum %v", f, *node.Maximum)
	}

	if node.MultipleOf != nil {
		quotient := f / *node.MultipleOf
		if quotient != math.Trunc(quotient) {
			errs.add(path, "value %v is not a multiple of %v", f, *node.MultipleOf)
		}
	}
}

func (v *Validator) validateArray(node *schema.Node, value interface{}, path string, errs *ValidationErrors) interface{} {
	items, ok := value.([]interface{})
	if !ok {
		errs.add(path, "expected array, got %s", typeName(value))
		return value
	}

	if node.MinItems != nil && len(items) < *node.MinItems {
		errs.add(path, "array has %d items, below minItems %d", len(items), *node.MinItems)
	}
	if node.MaxItems != nil && len(items) > *node.MaxItems {
		errs.add(path, "array has %d items, exceeds maxItems %d", len(items), *node.MaxItems)
	}
	if node.UniqueItems {
		for i := 1; i < len(items); i++ {
			for j := 0; j < i; j++ {
				if reflect.DeepEqual(items[i], items[j]) {
					errs.add(fmt.Sprintf("%s[%d]", path, i), "duplicate item")
				}
			}
		}
	}

	if node.Items == schema.InvalidNode {
		return items
	}
	normalized := make([]interface{}, len(items))
	for i, item := range items {
		normalized[i] = v.validateNode(node.Items, item, fmt.Sprintf("%s[%d]", path, i), errs)
	}
	return normalized
}

func (v *Validator) validateObject(node *schema.Node, value interface{}, path string, errs *ValidationErrors) interface{} {
	obj, ok := value.(map[string]interface{})
	if !ok {
		errs.add(path, "expected object, got %s", typeName(value))
		return value
	}

	for _, name := range node.Required {
		if _, present := obj[name]; !present {
			errs.add(joinPath(path, name), "required property is missing")
		}
	}

	normalized := make(map[string]interface{}, len(obj))
	for name, propValue := range obj {
		childID, declared := node.Properties[name]
		if !declared {
			if !node.AdditionalProperties {
				errs.add(joinPath(path, name), "property is not declared in the schema")
			}
			normalized[name] = propValue
			continue
		}
		normalized[name] = v.validateNode(childID, propValue, joinPath(path, name), errs)
	}
	return normalized
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func enumContains(enum []interface{}, value interface{}) bool {
	for _, allowed := range enum {
		if reflect.DeepEqual(allowed, value) {
			return true
		}
	}
	return false
}

func typeName(value interface{}) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return reflect.TypeOf(value).String()
}

func joinPath(path, element string) string {
	if path == "" {
		return element
	}
	return path + "." + element
}
