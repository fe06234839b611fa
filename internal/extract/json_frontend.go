package extract

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// JSONFrontend extracts declarations from JSON source units. A unit is a
// JSON array of declaration objects. Decoding goes through sigs.k8s.io/yaml
// so that the record shape (json tags) is shared with the YAML frontend.
type JSONFrontend struct{}

// NewJSONFrontend creates the JSON declaration frontend.
func NewJSONFrontend() *JSONFrontend {
	return &JSONFrontend{}
}

// Name identifies the frontend in diagnostics.
func (f *JSONFrontend) Name() string { return "json" }

// Extract parses the unit as a JSON array, decoding each element
// independently so one malformed object cannot poison its siblings.
func (f *JSONFrontend) Extract(source []byte) ([]RawDeclaration, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(source, &elements); err != nil {
		return nil, fmt.Errorf("unit is not a JSON array of declarations: %w", err)
	}

	decls := make([]RawDeclaration, 0, len(elements))
	for i, element := range elements {
		var decl RawDeclaration
		if err := sigsyaml.Unmarshal(element, &decl); err != nil {
			decl = RawDeclaration{
				Problems: []string{fmt.Sprintf("unparseable declaration: %v", err)},
			}
			// Recover identifying scalars from a loose decode.
			var loose map[string]interface{}
			if looseErr := json.Unmarshal(element, &loose); looseErr == nil {
				if name, ok := loose["name"].(string); ok {
					decl.Name = name
				}
				if kind, ok := loose["kind"].(string); ok {
					decl.Kind = kind
				}
			}
		}
		decl.Pos = Position{Document: i}
		decls = append(decls, decl)
	}

	return decls, nil
}
