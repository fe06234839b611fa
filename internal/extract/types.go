package extract

// Declaration kinds understood by the compiler. The extractor records the
// kind verbatim from the source text; unknown kinds are passed through and
// flagged by the structural validator, not here.
const (
	KindOperation = "operation"
	KindTemplate  = "template"
	KindDocument  = "document"
	KindRouter    = "router"
	KindSkill     = "skill"
	KindSchema    = "schema"
)

// Position records where a declaration was found inside a source unit,
// for diagnostics.
type Position struct {
	// Document is the zero-based index of the document within the unit
	// (YAML units can hold many declarations separated by "---").
	Document int

	// Line is the one-based line of the document start within the unit,
	// or 0 when the frontend cannot track lines (e.g. JSON arrays).
	Line int
}

// AutoContent describes the auto-generation source of a skill declaration:
// the lists of capability names whose documentation the skill reveals.
// It is mutually exclusive with manual skill text.
type AutoContent struct {
	Operations []string `json:"operations,omitempty" yaml:"operations,omitempty"`
	Documents  []string `json:"documents,omitempty" yaml:"documents,omitempty"`
	Templates  []string `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// Empty reports whether no auto-generation list is present at all.
func (a *AutoContent) Empty() bool {
	return a == nil || (len(a.Operations) == 0 && len(a.Documents) == 0 && len(a.Templates) == 0)
}

// RawDeclaration is one capability declaration as extracted from source
// text, before any semantic validation. Fields are populated on a
// best-effort basis: a malformed document still yields a record carrying
// whatever could be recovered, with the parse problem noted in Problems.
type RawDeclaration struct {
	Kind        string `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Hidden excludes the capability from discovery listings while keeping
	// it invocable by exact name.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// Params is the raw constraint tree for operation arguments,
	// template arguments, or document data.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`

	// Schema is the constraint tree body of a named schema declaration.
	Schema map[string]interface{} `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Members lists the operation names aggregated by a router.
	Members []string `json:"members,omitempty" yaml:"members,omitempty"`

	// Manual is the hand-written documentation text of a skill.
	Manual string `json:"manual,omitempty" yaml:"manual,omitempty"`

	// Auto is the auto-generation source of a skill.
	Auto *AutoContent `json:"auto,omitempty" yaml:"auto,omitempty"`

	// Template is the template text of a template or computed document.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Content is the static content of a document.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// URI is the optional resource URI of a document. Defaults to
	// "doc://<name>" at registration time when empty.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Handler names the host-registered handler bound to an operation.
	// Defaults to the capability name when empty.
	Handler string `json:"handler,omitempty" yaml:"handler,omitempty"`

	// Pos is where the declaration starts in the source unit.
	Pos Position `json:"-" yaml:"-"`

	// Problems records extraction-level defects (unparseable document,
	// non-mapping document). The structural validator turns these into
	// declaration errors; extraction itself never fails a unit.
	Problems []string `json:"-" yaml:"-"`
}

// Frontend turns the source text of one unit into raw declaration records.
//
// Implementations must be pure over the text (no I/O, no code execution) and
// must not fail the whole unit on a single malformed declaration: they emit a
// placeholder record with Problems set instead. A Frontend error therefore
// means the unit as a whole was unreadable, not that one declaration was bad.
type Frontend interface {
	// Name identifies the frontend in diagnostics ("yaml", "json").
	Name() string

	// Extract parses source text into raw declaration records.
	Extract(source []byte) ([]RawDeclaration, error)
}
