package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverMergesFormats(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "worked.yaml"), []byte(workedExampleYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ladder.go"), []byte(goJobsSource), 0o644); err != nil {
		t.Fatalf("write go: %v", err)
	}
	sets, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(sets))
	}
	found, err := Find(dir, "Worked-Example")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Set.Name != "worked-example" {
		t.Fatalf("unexpected set: %+v", found.Set)
	}
	if _, err := Find(dir, "missing"); err == nil {
		t.Fatalf("expected error for unknown set")
	}
}

func TestDiscoverRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(workedExampleYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(workedExampleYAML), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := Discover(dir); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestDiscoverRejectsNamesDifferingOnlyInCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: Foo\njobs:\n  - {start: 1, end: 2, profit: 1}\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("name: foo\njobs:\n  - {start: 3, end: 4, profit: 2}\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := Discover(dir); err == nil {
		t.Fatalf("expected Foo and foo to collide")
	}
	if _, err := Find(dir, "FOO"); err == nil {
		t.Fatalf("expected Find to surface the collision instead of picking a file")
	}
}

func TestLoadDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ladder.go")
	if err := os.WriteFile(path, []byte(goJobsSource), 0o644); err != nil {
		t.Fatalf("write go: %v", err)
	}
	file, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Set.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(file.Set.Jobs))
	}
	if _, err := Load(filepath.Join(dir, "jobs.txt")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
