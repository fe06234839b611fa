package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Builder converts validated constraint trees into schema node trees,
// resolving named references depth-first. One builder serves one compiled
// unit: every Build call shares the builder's arena so that structurally
// shared references point at the same nodes.
type Builder struct {
	arena *Arena

	// named holds the raw bodies of the unit's schema declarations.
	named map[string]map[string]interface{}

	// built caches resolved references; building tracks in-flight ones
	// for cycle detection.
	built    map[string]NodeID
	building map[string]bool
}

// NewBuilder creates a builder over the given named schema declarations.
func NewBuilder(named map[string]map[string]interface{}) *Builder {
	return &Builder{
		arena:    NewArena(),
		named:    named,
		built:    make(map[string]NodeID),
		building: make(map[string]bool),
	}
}

// Arena exposes the builder's arena.
func (b *Builder) Arena() *Arena {
	return b.arena
}

// Build converts one constraint tree into a schema rooted in the builder's
// arena.
func (b *Builder) Build(tree map[string]interface{}) (Schema, error) {
	root, err := b.buildNode(tree, "")
	if err != nil {
		return Schema{}, err
	}
	return Schema{Arena: b.arena, Root: root}, nil
}

// BuildRef resolves a named schema declaration as a schema of its own.
func (b *Builder) BuildRef(name string) (Schema, error) {
	root, err := b.resolveRef(name, "")
	if err != nil {
		return Schema{}, err
	}
	return Schema{Arena: b.arena, Root: root}, nil
}

func (b *Builder) buildNode(tree map[string]interface{}, path string) (NodeID, error) {
	if refValue, ok := tree["$ref"]; ok {
		refName, ok := refValue.(string)
		if !ok {
			return InvalidNode, fmt.Errorf("%s: $ref must be a schema declaration name", pathOrRoot(path))
		}
		return b.resolveRef(refName, path)
	}

	typeName, _ := tree["type"].(string)
	if typeName == "" {
		return InvalidNode, fmt.Errorf("%s: schema node has no type", pathOrRoot(path))
	}
	nodeType := Type(typeName)
	if !KnownTypes[nodeType] {
		return InvalidNode, fmt.Errorf("%s: unknown type %q", pathOrRoot(path), typeName)
	}

	node := Node{Type: nodeType, Items: InvalidNode}
	if desc, ok := tree["description"].(string); ok {
		node.Description = desc
	}

	var err error
	switch nodeType {
	case TypeString:
		err = b.fillStringConstraints(&node, tree, path)
	case TypeNumber, TypeInteger:
		err = fillNumericConstraints(&node, tree, path)
	case TypeArray:
		err = b.fillArrayConstraints(&node, tree, path)
	case TypeObject:
		err = b.fillObjectConstraints(&node, tree, path)
	}
	if err != nil {
		return InvalidNode, err
	}

	return b.arena.Add(node), nil
}

// resolveRef builds the named declaration's tree on first use and reuses
// the node afterwards. A reference chain that reaches itself while still
// being built is a cycle and is rejected.
func (b *Builder) resolveRef(name, path string) (NodeID, error) {
	if id, ok := b.built[name]; ok {
		return id, nil
	}
	if b.building[name] {
		return InvalidNode, fmt.Errorf("%s: schema reference cycle through %q", pathOrRoot(path), name)
	}

	body, ok := b.named[name]
	if !ok {
		return InvalidNode, fmt.Errorf("%s: unknown schema reference %q (declared schemas: %s)",
			pathOrRoot(path), name, strings.Join(b.knownNames(), ", "))
	}

	b.building[name] = true
	defer delete(b.building, name)

	id, err := b.buildNode(body, name)
	if err != nil {
		return InvalidNode, err
	}
	b.built[name] = id
	return id, nil
}

func (b *Builder) fillStringConstraints(node *Node, tree map[string]interface{}, path string) error {
	var err error
	if node.MinLength, err = intConstraint(tree, path, "minLength"); err != nil {
		return err
	}
	if node.MaxLength, err = intConstraint(tree, path, "maxLength"); err != nil {
		return err
	}
	if pattern, ok := tree["pattern"].(string); ok && pattern != "" {
		re, compileErr := regexp.Compile(pattern)
		if compileErr != nil {
			return fmt.Errorf("%s: invalid pattern %q: %v", pathOrRoot(path), pattern, compileErr)
		}
		node.Pattern = pattern
		node.Regexp = re
	}
	if format, ok := tree["format"].(string); ok {
		node.Format = format
	}
	if enum, ok := tree["enum"].([]interface{}); ok {
		node.Enum = enum
	}
	return nil
}

// fillNumericConstraints parses inclusive and exclusive bounds, accepting
// both the short names (min, exclusiveMax) and the JSON-Schema names
// (minimum, exclusiveMaximum).
func fillNumericConstraints(node *Node, tree map[string]interface{}, path string) error {
	var err error
	if node.Minimum, err = floatConstraint(tree, path, "min", "minimum"); err != nil {
		return err
	}
	if node.Maximum, err = floatConstraint(tree, path, "max", "maximum"); err != nil {
		return err
	}
	if node.ExclusiveMinimum, err = floatConstraint(tree, path, "exclusiveMin", "exclusiveMinimum"); err != nil {
		return err
	}
	if node.ExclusiveMaximum, err = floatConstraint(tree, path, "exclusiveMax", "exclusiveMaximum"); err != nil {
		return err
	}
	if node.MultipleOf, err = floatConstraint(tree, path, "multipleOf"); err != nil {
		return err
	}
	if node.MultipleOf != nil && *node.MultipleOf <= 0 {
		return fmt.Errorf("%s: multipleOf must be positive", pathOrRoot(path))
	}
	return nil
}

func (b *Builder) fillArrayConstraints(node *Node, tree map[string]interface{}, path string) error {
	var err error
	if node.MinItems, err = intConstraint(tree, path, "minItems"); err != nil {
		return err
	}
	if node.MaxItems, err = intConstraint(tree, path, "maxItems"); err != nil {
		return err
	}
	if unique, ok := tree["uniqueItems"].(bool); ok {
		node.UniqueItems = unique
	}
	if itemsValue, ok := tree["items"]; ok {
		items, ok := itemsValue.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: items must be a schema node", pathOrRoot(path))
		}
		id, err := b.buildNode(items, joinPath(path, "items"))
		if err != nil {
			return err
		}
		node.Items = id
	}
	return nil
}

func (b *Builder) fillObjectConstraints(node *Node, tree map[string]interface{}, path string) error {
	node.Properties = make(map[string]NodeID)

	if propsValue, ok := tree["properties"]; ok {
		props, ok := propsValue.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: properties must be a mapping", pathOrRoot(path))
		}
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child, ok := props[name].(map[string]interface{})
			if !ok {
				return fmt.Errorf("%s: property %q must be a schema node", pathOrRoot(path), name)
			}
			id, err := b.buildNode(child, joinPath(path, name))
			if err != nil {
				return err
			}
			node.Properties[name] = id
			node.PropertyOrder = append(node.PropertyOrder, name)
		}
	}

	if requiredValue, ok := tree["required"]; ok {
		required, ok := requiredValue.([]interface{})
		if !ok {
			return fmt.Errorf("%s: required must be a list of property names", pathOrRoot(path))
		}
		for _, entry := range required {
			name, ok := entry.(string)
			if !ok {
				return fmt.Errorf("%s: required entries must be property names", pathOrRoot(path))
			}
			if _, declared := node.Properties[name]; !declared {
				return fmt.Errorf("%s: required property %q is not declared", pathOrRoot(path), name)
			}
			node.Required = append(node.Required, name)
		}
	}

	// Additional properties are disallowed unless explicitly enabled.
	if extra, ok := tree["additionalProperties"].(bool); ok {
		node.AdditionalProperties = extra
	}

	return nil
}

func (b *Builder) knownNames() []string {
	names := make([]string, 0, len(b.named))
	for name := range b.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// intConstraint reads an integer constraint, tolerating the float decoding
// JSON frontends produce for whole numbers.
func intConstraint(tree map[string]interface{}, path string, key string) (*int, error) {
	value, ok := tree[key]
	if !ok {
		return nil, nil
	}
	switch v := value.(type) {
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("%s: %s must be an integer", pathOrRoot(path), key)
		}
		n := int(v)
		return &n, nil
	default:
		return nil, fmt.Errorf("%s: %s must be an integer", pathOrRoot(path), key)
	}
}

// floatConstraint reads a numeric constraint under any of its accepted
// aliases; the first alias present wins.
func floatConstraint(tree map[string]interface{}, path string, keys ...string) (*float64, error) {
	for _, key := range keys {
		value, ok := tree[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case int:
			f := float64(v)
			return &f, nil
		case int64:
			f := float64(v)
			return &f, nil
		case float64:
			f := v
			return &f, nil
		default:
			return nil, fmt.Errorf("%s: %s must be a number", pathOrRoot(path), key)
		}
	}
	return nil, nil
}

func joinPath(path, element string) string {
	if path == "" {
		return element
	}
	return path + "." + element
}

func pathOrRoot(path string) string {
	if path == "" {
		return "schema root"
	}
	return path
}
