package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/jobchain/internal/job"
)

const goJobsSource = `package main

func Jobs() ([]map[string]any, error) {
	var out []map[string]any
	for i := 0; i < 3; i++ {
		out = append(out, map[string]any{"start": 1 + 2*i, "end": 2 + 2*i, "profit": 10 * (i + 1)})
	}
	return out, nil
}`

func TestLoadGoJobSetDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ladder.go"), []byte(goJobsSource), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	sets, err := LoadGoJobSetDir(dir)
	if err != nil {
		t.Fatalf("load go sets: %v", err)
	}
	if len(sets) != 1 || sets[0].Set.Name != "ladder" {
		t.Fatalf("unexpected sets: %+v", sets)
	}
	list, err := sets[0].Set.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[2] != job.MustNew(5, 6, 30) {
		t.Fatalf("unexpected jobs: %s", list)
	}
}

func TestLoadGoJobSetFileMissingFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := LoadGoJobSetFile(path); err == nil {
		t.Fatalf("expected error for missing Jobs function")
	}
}

func TestLoadGoJobSetFileRejectsInvalidJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.go")
	src := "package main\n\nfunc Jobs() ([]map[string]any, error) {\n\treturn []map[string]any{{\"start\": 4, \"end\": 2, \"profit\": 1}}, nil\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := LoadGoJobSetFile(path); err == nil {
		t.Fatalf("expected validation error for start > end")
	}
}
