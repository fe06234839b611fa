package schema

import "regexp"

// Type is the discriminant of a schema node.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeNull    Type = "null"
)

// KnownTypes lists every valid type discriminant.
var KnownTypes = map[Type]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeArray:   true,
	TypeObject:  true,
	TypeNull:    true,
}

// NodeID addresses a node within an Arena. Stable identifiers keep cycle
// detection and caching tractable for mutually recursive declarations.
type NodeID int

// InvalidNode marks an absent child reference (e.g. an array with
// unconstrained items).
const InvalidNode NodeID = -1

// Node is one recursive schema value: a type discriminant plus the
// constraint set valid for that discriminant. Constraint pointers are nil
// when the constraint is absent.
type Node struct {
	Type        Type
	Description string

	// String constraints.
	MinLength *int
	MaxLength *int
	Pattern   string
	Regexp    *regexp.Regexp // compiled form of Pattern
	Format    string
	Enum      []interface{}

	// Numeric constraints. Inclusive and exclusive bounds may both be
	// present for the same side; the exclusive bound governs at
	// validation time.
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	// Array constraints.
	Items       NodeID
	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	// Object constraints. PropertyOrder preserves a deterministic
	// iteration order over Properties.
	Properties           map[string]NodeID
	PropertyOrder        []string
	Required             []string
	AdditionalProperties bool
}

// Arena owns the nodes of one or more schema trees. Nodes are addressed by
// index and never removed, so NodeIDs stay valid for the arena's lifetime.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty node arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add appends a node and returns its identifier.
func (a *Arena) Add(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// Node returns the node for an identifier. The pointer stays valid until
// the next Add.
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Schema pairs an arena with the root of one tree inside it.
type Schema struct {
	Arena *Arena
	Root  NodeID
}
