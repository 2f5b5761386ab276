package plugins

import (
	"fmt"
	"strings"

	"github.com/kingrea/jobchain/internal/job"
)

// JobSet is a named job list loaded from a YAML file or a Go script. The
// on-disk schema is
//
//	name: worked-example
//	description: optional text
//	jobs:
//	  - {start: 1, end: 3, profit: 50}
type JobSet struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Jobs        []JobSpec `json:"jobs" yaml:"jobs"`
}

// JobSpec is the serialized form of a job. It is not validated until List.
type JobSpec struct {
	Start  uint `json:"start" yaml:"start"`
	End    uint `json:"end" yaml:"end"`
	Profit uint `json:"profit" yaml:"profit"`
}

// JobSetFile pairs a parsed job set with where it came from.
type JobSetFile struct {
	Set  JobSet
	Path string
}

// Normalized trims text fields.
func (s JobSet) Normalized() JobSet {
	clone := JobSet{
		Name:        strings.TrimSpace(s.Name),
		Description: strings.TrimSpace(s.Description),
	}
	if len(s.Jobs) > 0 {
		clone.Jobs = make([]JobSpec, len(s.Jobs))
		copy(clone.Jobs, s.Jobs)
	}
	return clone
}

// Validate checks the name and every job's Start < End invariant.
func (s JobSet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("plugin: job set name is required")
	}
	_, err := s.List()
	return err
}

// List converts the specs into validated jobs, preserving order.
func (s JobSet) List() (job.List, error) {
	out := make(job.List, 0, len(s.Jobs))
	for idx, js := range s.Jobs {
		j, err := job.New(js.Start, js.End, js.Profit)
		if err != nil {
			return nil, fmt.Errorf("plugin: %s jobs[%d]: %w", s.Name, idx, err)
		}
		out = append(out, j)
	}
	return out, nil
}

// FromList wraps a job list as a named set, e.g. for writing generated jobs.
func FromList(name, description string, jobs []job.Job) JobSet {
	set := JobSet{Name: name, Description: description, Jobs: make([]JobSpec, len(jobs))}
	for idx, j := range jobs {
		set.Jobs[idx] = JobSpec{Start: j.Start, End: j.End, Profit: j.Profit}
	}
	return set
}
