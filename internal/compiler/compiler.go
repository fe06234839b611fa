package compiler

import (
	"fmt"

	"capstan/internal/declare"
	"capstan/internal/extract"
	"capstan/internal/registry"
	"capstan/internal/schema"
	"capstan/pkg/logging"

	"github.com/google/uuid"
)

// Unit is one source unit of capability declarations.
type Unit struct {
	// Path locates the unit; its extension selects the frontend.
	Path string

	// Source is the raw unit text.
	Source []byte
}

// Result is the outcome of compiling one unit. Capabilities holds every
// declaration that survived all stages; Errors holds every defect found in
// the ones that did not. Both can be non-empty at once: a bad declaration
// never blocks its siblings.
type Result struct {
	Capabilities []*registry.Capability
	Errors       declare.DeclarationErrors
}

// CompileUnit runs the full pipeline over one unit: extraction, structural
// validation, schema building, and capability assembly. Only an unreadable
// unit fails outright; everything downstream accumulates per-declaration
// errors into the result.
func CompileUnit(unit Unit) (Result, error) {
	frontend := extract.ForPath(unit.Path)
	decls, err := frontend.Extract(unit.Source)
	if err != nil {
		return Result{}, fmt.Errorf("extracting %s: %w", unit.Path, err)
	}

	valid, errs := declare.ValidateUnit(decls)
	result := Result{Errors: errs}

	// Schema declarations feed the builder; every constraint tree in the
	// unit resolves $ref against them.
	named := make(map[string]map[string]interface{})
	for _, decl := range valid {
		if decl.Kind == extract.KindSchema {
			named[decl.Name] = decl.Schema
		}
	}
	builder := schema.NewBuilder(named)

	for _, decl := range valid {
		cap, declErrs := assemble(builder, decl, unit.Path)
		if declErrs.HasErrors() {
			result.Errors = append(result.Errors, declErrs...)
			continue
		}
		result.Capabilities = append(result.Capabilities, cap)
	}

	logging.Debug("Compiler", "compiled %s: %d capabilities, %d errors",
		unit.Path, len(result.Capabilities), len(result.Errors))
	return result, nil
}

// assemble turns one validated declaration into a capability record,
// building its schema model along the way.
func assemble(builder *schema.Builder, decl extract.RawDeclaration, source string) (*registry.Capability, declare.DeclarationErrors) {
	var errs declare.DeclarationErrors

	cap := &registry.Capability{
		ID:          uuid.NewString(),
		Kind:        decl.Kind,
		Name:        decl.Name,
		CallName:    schema.CallName(decl.Name),
		Description: decl.Description,
		Hidden:      decl.Hidden,
		Source:      source,
		Members:     decl.Members,
		Manual:      decl.Manual,
		Auto:        decl.Auto,
		Template:    decl.Template,
		Content:     decl.Content,
		URI:         decl.URI,
		Handler:     decl.Handler,
	}

	switch decl.Kind {
	case extract.KindSchema:
		// Build the declaration itself so cycles and bad constraints
		// surface even when nothing references it yet.
		s, err := builder.BuildRef(decl.Name)
		if err != nil {
			errs.Add(decl.Name, "schema", declare.CategoryInvalidSchema, "%v", err)
			return nil, errs
		}
		cap.Schema = s
		cap.HasSchema = true

	default:
		if len(decl.Params) > 0 {
			s, err := builder.Build(decl.Params)
			if err != nil {
				errs.Add(decl.Name, "params", declare.CategoryInvalidSchema, "%v", err)
				return nil, errs
			}
			cap.Schema = s
			cap.HasSchema = true
		}
	}

	return cap, nil
}
