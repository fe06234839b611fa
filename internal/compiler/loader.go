package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// unitExtensions are the file extensions recognized as declaration units.
var unitExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// LoadDir reads every declaration unit under a directory tree, sorted by
// path so compilation order is deterministic.
func LoadDir(dir string) ([]Unit, error) {
	var units []Unit
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			// Dot directories are not scanned for units.
			if strings.HasPrefix(entry.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !unitExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading unit %s: %w", path, readErr)
		}
		units = append(units, Unit{Path: path, Source: source})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units, nil
}

// LoadFile reads a single declaration unit.
func LoadFile(path string) (Unit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, fmt.Errorf("reading unit %s: %w", path, err)
	}
	return Unit{Path: path, Source: source}, nil
}
