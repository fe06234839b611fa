package extract

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFrontend extracts declarations from YAML source units. A unit is a
// YAML stream: one declaration per document, separated by "---" lines.
type YAMLFrontend struct{}

// NewYAMLFrontend creates the YAML declaration frontend.
func NewYAMLFrontend() *YAMLFrontend {
	return &YAMLFrontend{}
}

// Name identifies the frontend in diagnostics.
func (f *YAMLFrontend) Name() string { return "yaml" }

// Extract splits the unit into documents and parses each one independently.
// Splitting is done on the raw text rather than with a stream decoder so
// that a syntax error in one document cannot poison the rest of the unit.
func (f *YAMLFrontend) Extract(source []byte) ([]RawDeclaration, error) {
	docs := splitDocuments(string(source))

	var decls []RawDeclaration
	index := 0
	for _, doc := range docs {
		if strings.TrimSpace(doc.text) == "" {
			continue
		}

		decl := parseDocument(doc.text)
		decl.Pos = Position{Document: index, Line: doc.line}
		decls = append(decls, decl)
		index++
	}

	return decls, nil
}

// document is one raw YAML document with its starting line in the unit.
type document struct {
	text string
	line int
}

// splitDocuments splits a YAML stream on "---" separator lines, tracking the
// one-based line each document starts on.
func splitDocuments(source string) []document {
	lines := strings.Split(source, "\n")

	var docs []document
	var current []string
	startLine := 1

	flush := func(nextStart int) {
		if len(current) > 0 {
			docs = append(docs, document{
				text: strings.Join(current, "\n"),
				line: startLine,
			})
		}
		current = nil
		startLine = nextStart
	}

	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "---" {
			flush(i + 2)
			continue
		}
		if len(current) == 0 && strings.TrimSpace(line) == "" {
			// Leading blank lines belong to no document.
			startLine = i + 2
			continue
		}
		current = append(current, line)
	}
	flush(0)

	return docs
}

// parseDocument parses one YAML document into a RawDeclaration. Parse
// failures produce a placeholder record: the structural validator reports
// the problem without losing sibling declarations.
func parseDocument(text string) RawDeclaration {
	var decl RawDeclaration
	if err := yaml.Unmarshal([]byte(text), &decl); err != nil {
		return recoverDeclaration(text, err)
	}
	return decl
}

// recoverDeclaration salvages whatever identifying fields it can from an
// unparseable document so that diagnostics can name the declaration.
func recoverDeclaration(text string, parseErr error) RawDeclaration {
	decl := RawDeclaration{
		Problems: []string{fmt.Sprintf("unparseable declaration: %v", parseErr)},
	}

	// A field that failed typed decoding (e.g. "members: 42") often still
	// yields scalars from a loose map decode.
	var loose map[string]interface{}
	if err := yaml.Unmarshal([]byte(text), &loose); err == nil {
		if name, ok := loose["name"].(string); ok {
			decl.Name = name
		}
		if kind, ok := loose["kind"].(string); ok {
			decl.Kind = kind
		}
		if desc, ok := loose["description"].(string); ok {
			decl.Description = desc
		}
		return decl
	}

	// Full syntax failure: scan line prefixes for name/kind scalars.
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(trimmed, "name:"); ok && decl.Name == "" {
			decl.Name = strings.Trim(strings.TrimSpace(v), `"'`)
		}
		if v, ok := strings.CutPrefix(trimmed, "kind:"); ok && decl.Kind == "" {
			decl.Kind = strings.Trim(strings.TrimSpace(v), `"'`)
		}
	}
	return decl
}
