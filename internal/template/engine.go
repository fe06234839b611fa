package template

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders template and document capabilities. Templates are Go
// text/template with the sprig function map available.
type Engine struct {
	funcs texttemplate.FuncMap

	// varPattern matches top-level variable references like {{ .city }},
	// used to discover a template's arguments when no schema declares
	// them.
	varPattern *regexp.Regexp
}

// New creates a template engine.
func New() *Engine {
	return &Engine{
		funcs:      sprig.FuncMap(),
		varPattern: regexp.MustCompile(`\{\{-?\s*\.([a-zA-Z_][a-zA-Z0-9_]*)`),
	}
}

// Render executes template text against the given data. Missing keys
// render as empty values rather than failing, so optional arguments can be
// omitted.
func (e *Engine) Render(name, text string, data map[string]interface{}) (string, error) {
	tmpl, err := texttemplate.New(name).Funcs(e.funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	// Referenced variables the caller did not supply render as empty
	// strings, so optional arguments can be omitted.
	filled := make(map[string]interface{}, len(data))
	for key, value := range data {
		filled[key] = value
	}
	for _, name := range e.Vars(text) {
		if _, ok := filled[name]; !ok {
			filled[name] = ""
		}
	}
	data = filled
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Vars returns the distinct top-level variables referenced by template
// text, sorted.
func (e *Engine) Vars(text string) []string {
	seen := make(map[string]bool)
	for _, match := range e.varPattern.FindAllStringSubmatch(text, -1) {
		seen[match[1]] = true
	}

	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return vars
}
