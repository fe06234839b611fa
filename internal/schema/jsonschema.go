package schema

// JSONSchema exports the schema as a JSON-Schema-compatible map, suitable
// for MCP tool input schemas and for external validators. Shared references
// are inlined; the export assumes the builder rejected cycles.
func (s Schema) JSONSchema() map[string]interface{} {
	return exportNode(s.Arena, s.Root)
}

func exportNode(arena *Arena, id NodeID) map[string]interface{} {
	if id == InvalidNode {
		return map[string]interface{}{}
	}
	node := arena.Node(id)
	out := map[string]interface{}{"type": string(node.Type)}
	if node.Description != "" {
		out["description"] = node.Description
	}

	switch node.Type {
	case TypeString:
		if node.MinLength != nil {
			out["minLength"] = *node.MinLength
		}
		if node.MaxLength != nil {
			out["maxLength"] = *node.MaxLength
		}
		if node.Pattern != "" {
			out["pattern"] = node.Pattern
		}
		if node.Format != "" {
			out["format"] = node.Format
		}
		if len(node.Enum) > 0 {
			out["enum"] = node.Enum
		}

	case TypeNumber, TypeInteger:
		if node.Minimum != nil {
			out["minimum"] = *node.Minimum
		}
		if node.Maximum != nil {
			out["maximum"] = *node.Maximum
		}
		if node.ExclusiveMinimum != nil {
			out["exclusiveMinimum"] = *node.ExclusiveMinimum
		}
		if node.ExclusiveMaximum != nil {
			out["exclusiveMaximum"] = *node.ExclusiveMaximum
		}
		if node.MultipleOf != nil {
			out["multipleOf"] = *node.MultipleOf
		}

	case TypeArray:
		if node.Items != InvalidNode {
			out["items"] = exportNode(arena, node.Items)
		}
		if node.MinItems != nil {
			out["minItems"] = *node.MinItems
		}
		if node.MaxItems != nil {
			out["maxItems"] = *node.MaxItems
		}
		if node.UniqueItems {
			out["uniqueItems"] = true
		}

	case TypeObject:
		properties := make(map[string]interface{}, len(node.Properties))
		for _, name := range node.PropertyOrder {
			properties[name] = exportNode(arena, node.Properties[name])
		}
		out["properties"] = properties
		if len(node.Required) > 0 {
			out["required"] = append([]string(nil), node.Required...)
		}
		out["additionalProperties"] = node.AdditionalProperties
	}

	return out
}
