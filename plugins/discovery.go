// Package plugins loads job lists from disk. YAML files declare jobs
// directly; Go scripts are interpreted with yaegi and may compute them.
package plugins

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a single job set, choosing the loader by file extension.
func Load(path string) (JobSetFile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return JobSetFile{}, fmt.Errorf("plugin: job set path is required")
	}
	switch {
	case isYAMLFile(trimmed):
		return LoadJobSetFile(trimmed)
	case strings.EqualFold(filepath.Ext(trimmed), ".go"):
		return LoadGoJobSetFile(trimmed)
	default:
		return JobSetFile{}, fmt.Errorf("plugin: %s: unsupported job set format (want .yaml, .yml or .go)", trimmed)
	}
}

// Discover loads every YAML and Go job set under dir. Set names must be
// unique across both formats, ignoring case.
func Discover(dir string) ([]JobSetFile, error) {
	yamlSets, err := LoadJobSetDir(dir)
	if err != nil {
		return nil, err
	}
	goSets, err := LoadGoJobSetDir(dir)
	if err != nil {
		return nil, err
	}
	all := append(yamlSets, goSets...)
	// Names are compared case-insensitively, the way Find matches them.
	seen := make(map[string]string, len(all))
	for _, file := range all {
		key := strings.ToLower(file.Set.Name)
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("plugin: duplicate job set %s (%s and %s)", file.Set.Name, existing, file.Path)
		}
		seen[key] = file.Path
	}
	return all, nil
}

// Find returns the discovered set with the given name.
func Find(dir, name string) (JobSetFile, error) {
	sets, err := Discover(dir)
	if err != nil {
		return JobSetFile{}, err
	}
	for _, file := range sets {
		if strings.EqualFold(file.Set.Name, strings.TrimSpace(name)) {
			return file, nil
		}
	}
	return JobSetFile{}, fmt.Errorf("plugin: job set %q not found in %s", name, dir)
}
