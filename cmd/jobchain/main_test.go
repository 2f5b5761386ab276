package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/jobchain/internal/report"
)

const workedExampleYAML = `name: worked-example
jobs:
  - {start: 1, end: 3, profit: 50}
  - {start: 4, end: 6, profit: 10}
  - {start: 2, end: 5, profit: 100}
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("jobchain %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestSolveJobSetFileAsJSON(t *testing.T) {
	project := t.TempDir()
	setPath := filepath.Join(project, "worked.yaml")
	if err := os.WriteFile(setPath, []byte(workedExampleYAML), 0o644); err != nil {
		t.Fatalf("write set: %v", err)
	}
	out := execute(t, "--project", project, "solve", "--jobs", setPath, "--verify", "--json")

	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.Chain.TotalProfit != 100 || rep.Chain.Len() != 1 {
		t.Fatalf("chain = %s worth %d, want one job worth 100", rep.Chain.Jobs, rep.Chain.TotalProfit)
	}
	if !rep.Verified || rep.Source.Name != "worked-example" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	listing := execute(t, "--project", project, "runs")
	if !strings.Contains(listing, "worked-example") {
		t.Fatalf("runs listing missing the solved set:\n%s", listing)
	}
	if !strings.HasPrefix(listing, "RUN") || strings.ContainsAny(listing, "|+") {
		t.Fatalf("expected a plain borderless listing:\n%s", listing)
	}
	fields := strings.Fields(strings.Split(strings.TrimSpace(listing), "\n")[1])
	if last := fields[len(fields)-1]; last != "100" {
		t.Fatalf("expected profit 100 in the last column, got %q in:\n%s", last, listing)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	project := t.TempDir()
	first := execute(t, "--project", project, "generate", "--seed", "7", "--count", "12")
	second := execute(t, "--project", project, "generate", "--seed", "7", "--count", "12")
	if first != second {
		t.Fatalf("same seed produced different job sets")
	}
	if !strings.Contains(first, "name: generated-7") {
		t.Fatalf("expected default name in output:\n%s", first)
	}
}

func TestSetsListsGeneratedSet(t *testing.T) {
	project := t.TempDir()
	setPath := filepath.Join(project, ".jobchain", "jobs", "seven.yaml")
	execute(t, "--project", project, "generate", "--seed", "7", "--count", "5", "--name", "seven", "--out", setPath)
	out := execute(t, "--project", project, "sets")
	if !strings.Contains(out, "seven") {
		t.Fatalf("sets output missing seven:\n%s", out)
	}
	execute(t, "--project", project, "solve", "--set", "seven")
}
