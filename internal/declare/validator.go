package declare

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"capstan/internal/extract"
)

// namePattern is the naming convention for all capability and schema
// declarations: snake_case, lowercase start, then lowercase letters, digits,
// or underscores.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// knownKinds is the declaration vocabulary the compiler understands.
var knownKinds = map[string]bool{
	extract.KindOperation: true,
	extract.KindTemplate:  true,
	extract.KindDocument:  true,
	extract.KindRouter:    true,
	extract.KindSkill:     true,
	extract.KindSchema:    true,
}

// constraintKeys lists the constraint fields valid for each type
// discriminant, including the accepted aliases for numeric bounds.
var constraintKeys = map[string]map[string]bool{
	"string": {
		"minLength": true, "maxLength": true,
		"pattern": true, "format": true, "enum": true,
	},
	"number": {
		"min": true, "minimum": true, "max": true, "maximum": true,
		"exclusiveMin": true, "exclusiveMinimum": true,
		"exclusiveMax": true, "exclusiveMaximum": true,
		"multipleOf": true,
	},
	"integer": {
		"min": true, "minimum": true, "max": true, "maximum": true,
		"exclusiveMin": true, "exclusiveMinimum": true,
		"exclusiveMax": true, "exclusiveMaximum": true,
		"multipleOf": true,
	},
	"boolean": {},
	"null":    {},
	"array": {
		"items": true, "minItems": true, "maxItems": true, "uniqueItems": true,
	},
	"object": {
		"properties": true, "required": true, "additionalProperties": true,
	},
}

// commonKeys are valid on every schema node regardless of type.
var commonKeys = map[string]bool{
	"type": true, "description": true, "default": true,
}

// ValidateUnit runs the ordered structural and naming checks over every
// extracted record, accumulating all failures instead of short-circuiting.
//
// Records with zero errors are returned as valid and proceed to the schema
// builder; the full error collection covers every record so a caller sees
// all defects across the unit in one pass.
func ValidateUnit(decls []extract.RawDeclaration) ([]extract.RawDeclaration, DeclarationErrors) {
	var valid []extract.RawDeclaration
	var errs DeclarationErrors

	for _, decl := range decls {
		declErrs := validateDeclaration(decl)
		if declErrs.HasErrors() {
			errs = append(errs, declErrs...)
			continue
		}
		valid = append(valid, decl)
	}

	return valid, errs
}

// validateDeclaration applies every check to one record, collecting all
// failures.
func validateDeclaration(decl extract.RawDeclaration) DeclarationErrors {
	var errs DeclarationErrors
	scope := decl.Name

	// Extraction-level defects become malformed-declaration errors here so
	// that every diagnostic for the unit flows through one channel.
	for _, problem := range decl.Problems {
		errs.Add(scope, "", CategoryMalformed, "%s", problem)
	}

	checkName(decl, &errs)
	checkDescription(decl, &errs)
	checkKind(decl, &errs)
	checkContentShape(decl, &errs)
	checkConstraintTrees(decl, &errs)

	return errs
}

// checkName enforces name presence and the snake_case naming convention.
func checkName(decl extract.RawDeclaration, errs *DeclarationErrors) {
	if decl.Name == "" {
		errs.Add("", "name", CategoryMissingField, "declaration has no name")
		return
	}
	if !namePattern.MatchString(decl.Name) {
		errs.Add(decl.Name, "name", CategoryNameFormat,
			"name %q does not match %s (snake_case: lowercase start, then lowercase letters, digits, or underscores)",
			decl.Name, namePattern.String())
	}
}

// checkDescription enforces a non-empty description. The message explains
// the description's role: trigger phrase for skills, documentation for
// everything else.
func checkDescription(decl extract.RawDeclaration, errs *DeclarationErrors) {
	if strings.TrimSpace(decl.Description) != "" {
		return
	}
	if decl.Kind == extract.KindSkill {
		errs.Add(decl.Name, "description", CategoryMissingField,
			"description is required: it is the trigger phrase used to select this skill")
		return
	}
	errs.Add(decl.Name, "description", CategoryMissingField,
		"description is required: it documents the capability for callers")
}

// checkKind rejects unknown declaration kinds and kind-specific missing
// fields.
func checkKind(decl extract.RawDeclaration, errs *DeclarationErrors) {
	if decl.Kind == "" {
		errs.Add(decl.Name, "kind", CategoryMissingField, "declaration has no kind")
		return
	}
	if !knownKinds[decl.Kind] {
		errs.Add(decl.Name, "kind", CategoryUnknownKind,
			"unknown kind %q (expected one of %s)", decl.Kind, strings.Join(sortedKinds(), ", "))
		return
	}

	switch decl.Kind {
	case extract.KindRouter:
		if len(decl.Members) == 0 {
			errs.Add(decl.Name, "members", CategoryMissingField,
				"router needs at least one member operation name")
		}
	case extract.KindSchema:
		if len(decl.Schema) == 0 {
			errs.Add(decl.Name, "schema", CategoryMissingField,
				"schema declaration needs a schema body")
		}
	case extract.KindTemplate:
		if strings.TrimSpace(decl.Template) == "" && decl.Handler == "" {
			errs.Add(decl.Name, "template", CategoryMissingField,
				"template needs template text or a handler reference")
		}
	case extract.KindDocument:
		if strings.TrimSpace(decl.Content) == "" && strings.TrimSpace(decl.Template) == "" && decl.Handler == "" {
			errs.Add(decl.Name, "content", CategoryMissingField,
				"document needs static content, a template, or a handler reference")
		}
	}
}

// checkContentShape enforces skill content exclusivity: manual text and the
// auto block are mutually exclusive, and one of them must be present.
func checkContentShape(decl extract.RawDeclaration, errs *DeclarationErrors) {
	if decl.Kind != extract.KindSkill {
		return
	}

	hasManual := strings.TrimSpace(decl.Manual) != ""
	hasAuto := !decl.Auto.Empty()

	switch {
	case hasManual && hasAuto:
		errs.Add(decl.Name, "manual", CategoryExclusiveContent,
			"manual text and auto block are mutually exclusive: provide only one content source")
	case !hasManual && !hasAuto:
		errs.Add(decl.Name, "manual", CategoryExclusiveContent,
			"skill has no content source: provide manual text or an auto block")
	}
}

// checkConstraintTrees walks the declaration's constraint trees, rejecting
// inline object/array literals below the root and constraint fields outside
// the node's type discriminant.
func checkConstraintTrees(decl extract.RawDeclaration, errs *DeclarationErrors) {
	if len(decl.Params) > 0 {
		walkConstraints(decl.Name, decl.Params, "params", 0, errs)
	}
	if len(decl.Schema) > 0 {
		walkConstraints(decl.Name, decl.Schema, "schema", 0, errs)
	}
}

// walkConstraints validates one schema node and recurses into its children.
// depth 0 is the declaration's own root node; everything below must express
// object and array shapes as named references, not inline literals.
func walkConstraints(scope string, node map[string]interface{}, path string, depth int, errs *DeclarationErrors) {
	if ref, ok := node["$ref"]; ok {
		if _, isString := ref.(string); !isString {
			errs.Add(scope, path, CategoryMalformed, "$ref must be a schema declaration name")
		}
		return
	}

	nodeType, _ := node["type"].(string)
	allowed, knownType := constraintKeys[nodeType]

	if (nodeType == "object" || nodeType == "array") && depth > 0 {
		errs.Add(scope, path, CategoryInlineLiteral,
			"nested %s at %s must reference a named schema declaration via $ref, not an inline literal",
			nodeType, path)
		return
	}

	if knownType {
		// Constraint fields outside the discriminant's allowed set are
		// ignored by validators but flagged here on inline literals.
		var stray []string
		for key := range node {
			if !commonKeys[key] && !allowed[key] {
				stray = append(stray, key)
			}
		}
		sort.Strings(stray)
		for _, key := range stray {
			errs.Add(scope, fmt.Sprintf("%s.%s", path, key), CategoryStrayConstraint,
				"constraint %q is not valid for type %q", key, nodeType)
		}
	}

	switch nodeType {
	case "object":
		props, _ := node["properties"].(map[string]interface{})
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child, ok := props[name].(map[string]interface{})
			childPath := fmt.Sprintf("%s.properties.%s", path, name)
			if !ok {
				errs.Add(scope, childPath, CategoryMalformed, "property must be a schema node")
				continue
			}
			walkConstraints(scope, child, childPath, depth+1, errs)
		}
	case "array":
		items, ok := node["items"].(map[string]interface{})
		if !ok {
			if _, present := node["items"]; present {
				errs.Add(scope, path+".items", CategoryMalformed, "items must be a schema node")
			}
			return
		}
		walkConstraints(scope, items, path+".items", depth+1, errs)
	}
}

func sortedKinds() []string {
	kinds := make([]string, 0, len(knownKinds))
	for kind := range knownKinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
