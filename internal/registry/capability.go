package registry

import (
	"capstan/internal/extract"
	"capstan/internal/schema"
)

// Capability is one compiled, registrable capability: the validated
// declaration plus everything derived at compile time (invocation name,
// schema model, compile identity).
type Capability struct {
	// ID is the unique identity of this compiled instance, assigned by
	// the compiler. Recompiling the same declaration yields a new ID.
	ID string

	// Kind is the declaration kind (extract.KindOperation and friends).
	Kind string

	// Name is the declared snake_case name; registry keys on it.
	Name string

	// CallName is the derived camelCase invocation name clients use.
	CallName string

	// Description documents the capability; for skills it is the trigger
	// phrase.
	Description string

	// Hidden capabilities are omitted from default discovery listings and
	// are reachable only through the meta capabilities or a router that
	// names them.
	Hidden bool

	// Source is the path of the unit the capability came from.
	Source string

	// Schema is the compiled argument schema; HasSchema is false for
	// capabilities declared without parameters.
	Schema    schema.Schema
	HasSchema bool

	// Members holds a router's member operation names, as declared.
	Members []string

	// Skill content: exactly one of Manual or Auto is set.
	Manual string
	Auto   *extract.AutoContent

	// Template and document payloads.
	Template string
	Content  string
	URI      string

	// Handler names the bound handler implementing the capability, when
	// the declaration delegates to code.
	Handler string
}

// Invocable reports whether the capability can be called with arguments
// (operations and routers; documents and templates are fetched, not
// called).
func (c *Capability) Invocable() bool {
	return c.Kind == extract.KindOperation || c.Kind == extract.KindRouter
}
