package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"gopkg.in/yaml.v3"
)

const goJobsFuncName = "Jobs"

// LoadGoJobSetDir evaluates every .go file in dir and collects the job sets
// they declare via Jobs().
func LoadGoJobSetDir(dir string) ([]JobSetFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var sets []JobSetFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		file, err := LoadGoJobSetFile(filepath.Join(trimmed, entry.Name()))
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

// LoadGoJobSetFile interprets a Go script that defines
//
//	func Jobs() ([]map[string]any, error)
//
// where each map carries start, end and profit. The script may import any
// standard library package, e.g. math/rand for a custom distribution. The
// set is named after the file.
func LoadGoJobSetFile(path string) (JobSetFile, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return JobSetFile{}, fmt.Errorf("plugin: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: load stdlib symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(goJobsFuncName)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s must define %s() ([]map[string]any, error): %w", path, goJobsFuncName, err)
	}
	raw, err := invokeJobsFunc(fnValue)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	payload, err := yaml.Marshal(raw)
	if err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: encode jobs: %w", path, err)
	}
	set := JobSet{Name: baseName(path)}
	if err := yaml.Unmarshal(payload, &set.Jobs); err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: decode jobs: %w", path, err)
	}
	set = set.Normalized()
	if err := set.Validate(); err != nil {
		return JobSetFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return JobSetFile{Set: set, Path: filepath.Clean(path)}, nil
}

func invokeJobsFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", goJobsFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", goJobsFuncName)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", goJobsFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", goJobsFuncName)
	}
	jobsVal := results[0]
	if jobs, ok := jobsVal.Interface().([]map[string]any); ok {
		return jobs, nil
	}
	if jobsVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]any", goJobsFuncName)
	}
	out := make([]map[string]any, jobsVal.Len())
	for idx := 0; idx < jobsVal.Len(); idx++ {
		entry, ok := jobsVal.Index(idx).Interface().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not map[string]any", goJobsFuncName, idx)
		}
		out[idx] = entry
	}
	return out, nil
}
