package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseJobSetYAML decodes and validates a single job set payload.
func ParseJobSetYAML(data []byte) (JobSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return JobSet{}, fmt.Errorf("plugin: job set payload is empty")
	}
	var set JobSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return JobSet{}, fmt.Errorf("plugin: decode job set: %w", err)
	}
	set = set.Normalized()
	if err := set.Validate(); err != nil {
		return JobSet{}, err
	}
	return set, nil
}

// MarshalJobSetYAML encodes a job set in the same schema ParseJobSetYAML reads.
func MarshalJobSetYAML(set JobSet) ([]byte, error) {
	data, err := yaml.Marshal(set.Normalized())
	if err != nil {
		return nil, fmt.Errorf("plugin: encode job set: %w", err)
	}
	return data, nil
}

// WriteJobSetFile writes a job set to path, creating parent directories.
func WriteJobSetFile(path string, set JobSet) error {
	data, err := MarshalJobSetYAML(set)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("plugin: ensure dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("plugin: write %s: %w", path, err)
	}
	return nil
}

// LoadJobSetFile reads a YAML job set from disk. A set without a name takes
// the file's base name.
func LoadJobSetFile(path string) (JobSetFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return JobSetFile{}, fmt.Errorf("plugin: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	data, err = withDefaultName(data, baseName(path))
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	set, err := ParseJobSetYAML(data)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return JobSetFile{Set: set, Path: filepath.Clean(path)}, nil
}

// LoadJobSetDir scans a directory for *.yaml job sets. Missing directories
// are treated as "no job sets".
func LoadJobSetDir(dir string) ([]JobSetFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var sets []JobSetFile
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		file, err := LoadJobSetFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		sets = append(sets, file)
	}
	if len(sets) == 0 {
		return nil, nil
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Path < sets[j].Path })
	return sets, nil
}

func withDefaultName(data []byte, name string) ([]byte, error) {
	var probe struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode job set: %w", err)
	}
	if strings.TrimSpace(probe.Name) != "" {
		return data, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode job set: %w", err)
	}
	if raw == nil {
		return data, nil
	}
	raw["name"] = name
	return yaml.Marshal(raw)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
