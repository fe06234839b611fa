package compiler

import (
	"capstan/internal/argcheck"
	"capstan/internal/extract"
	"capstan/internal/registry"
	"capstan/pkg/logging"
)

// Assembly is the outcome of compiling and registering a set of units.
type Assembly struct {
	// Registry holds every capability that compiled and registered
	// cleanly.
	Registry *registry.Registry

	// Errors accumulates every defect across all units and the
	// cross-declaration checks: declaration errors, duplicate names,
	// unresolvable router members, broken skill references.
	Errors []error
}

// Valid reports whether the assembly is defect-free.
func (a *Assembly) Valid() bool {
	return len(a.Errors) == 0
}

// Assemble compiles every unit and builds the registry, then runs the
// cross-declaration checks that only make sense once all units are in:
// router member resolution and skill content references. Nothing short-
// circuits; the returned assembly carries every error found.
func Assemble(units []Unit, cache *argcheck.Cache) *Assembly {
	reg := registry.New(cache)
	assembly := &Assembly{Registry: reg}

	for _, unit := range units {
		result, err := CompileUnit(unit)
		if err != nil {
			assembly.Errors = append(assembly.Errors, err)
			continue
		}
		for _, declErr := range result.Errors {
			assembly.Errors = append(assembly.Errors, declErr)
		}
		for _, cap := range result.Capabilities {
			if err := reg.Register(cap); err != nil {
				assembly.Errors = append(assembly.Errors, err)
			}
		}
	}

	// Routers and skills reference capabilities by name; those names may
	// live in other units, so resolution waits until every unit is
	// registered.
	for _, router := range reg.ListKind(extract.KindRouter, true) {
		_, errs := reg.ResolveRouter(router)
		assembly.Errors = append(assembly.Errors, errs...)
	}
	for _, skill := range reg.ListKind(extract.KindSkill, true) {
		_, errs := reg.SkillContent(skill)
		assembly.Errors = append(assembly.Errors, errs...)
	}

	logging.Info("Compiler", "assembled %d capabilities from %d units (%d errors)",
		reg.Len(), len(units), len(assembly.Errors))
	return assembly
}

// AssembleDir loads and assembles every unit under a directory.
func AssembleDir(dir string, cache *argcheck.Cache) (*Assembly, error) {
	units, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return Assemble(units, cache), nil
}
