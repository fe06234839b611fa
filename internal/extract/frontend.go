package extract

import (
	"path/filepath"
	"strings"
)

// ForPath selects the frontend matching a source unit's file extension.
// YAML is the default for unknown extensions.
func ForPath(path string) Frontend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONFrontend()
	default:
		return NewYAMLFrontend()
	}
}
