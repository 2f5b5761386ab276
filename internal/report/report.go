// Package report persists one JSON document per solver run so past runs can
// be listed, inspected and reproduced from their recorded source.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/optree"
)

// ErrReportNotFound is returned when no report exists for a run id.
var ErrReportNotFound = errors.New("report: not found")

// SourceKind names where a run's jobs came from.
type SourceKind string

const (
	SourceGenerator SourceKind = "generator"
	SourceFile      SourceKind = "file"
	SourceInline    SourceKind = "inline"
)

// Source records enough about the job source to reproduce a run.
type Source struct {
	Kind SourceKind `json:"kind"`
	Path string     `json:"path,omitempty"`
	Name string     `json:"name,omitempty"`
	Seed *int64     `json:"seed,omitempty"`
}

// Report is the persisted outcome of a single run.
type Report struct {
	RunID      string        `json:"run_id"`
	CreatedAt  time.Time     `json:"created_at"`
	Source     Source        `json:"source"`
	Policy     optree.Policy `json:"policy"`
	Jobs       job.List      `json:"jobs"`
	Chain      optree.Chain  `json:"chain"`
	Stats      optree.Stats  `json:"stats"`
	NoSchedule bool          `json:"no_schedule,omitempty"`
	Verified   bool          `json:"verified,omitempty"`
	ElapsedMS  int64         `json:"elapsed_ms"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store persists run reports.
type Store interface {
	Save(Report) error
	Load(id string) (Report, error)
	List() ([]Report, error)
}

// Repository stores reports as <dir>/<run-id>.json.
type Repository struct {
	dir string
}

// NewRepository creates a repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the directory reports are written to.
func (r *Repository) Dir() string {
	return r.dir
}

// Save writes the report through a temp file and rename.
func (r *Repository) Save(rep Report) error {
	if err := validID(rep.RunID); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("report: ensure dir: %w", err)
	}
	encoded, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode %s: %w", rep.RunID, err)
	}
	tmp, err := os.CreateTemp(r.dir, rep.RunID+".*.tmp")
	if err != nil {
		return fmt.Errorf("report: create temp file: %w", err)
	}
	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("report: write %s: %w", rep.RunID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("report: close %s: %w", rep.RunID, err)
	}
	if err := os.Rename(tmp.Name(), r.path(rep.RunID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("report: commit %s: %w", rep.RunID, err)
	}
	return nil
}

// Load reads the report for a run id. A unique id prefix is accepted.
func (r *Repository) Load(id string) (Report, error) {
	id = strings.TrimSpace(id)
	if err := validID(id); err != nil {
		return Report{}, err
	}
	rep, err := r.read(r.path(id))
	if !errors.Is(err, ErrReportNotFound) {
		return rep, err
	}
	matches, globErr := filepath.Glob(filepath.Join(r.dir, id+"*.json"))
	if globErr != nil || len(matches) == 0 {
		return Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if len(matches) > 1 {
		return Report{}, fmt.Errorf("report: id prefix %s is ambiguous (%d matches)", id, len(matches))
	}
	return r.read(matches[0])
}

// List returns every stored report, newest first.
func (r *Repository) List() ([]Report, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("report: read %s: %w", r.dir, err)
	}
	var reports []Report
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rep, err := r.read(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (r *Repository) read(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, filepath.Base(path))
		}
		return Report{}, fmt.Errorf("report: read %s: %w", path, err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return Report{}, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return rep, nil
}

func (r *Repository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("report: run id is required")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("report: invalid run id %q", id)
	}
	return nil
}
