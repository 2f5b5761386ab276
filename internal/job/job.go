// Package job defines the immutable job value the scheduler works with: a
// half-open time interval [Start, End) that pays Profit when it is chosen.
package job

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidJob is returned when a job does not end strictly after it starts.
var ErrInvalidJob = errors.New("job: start must be before end")

// Job is a single schedulable interval. Construct it with New so the
// Start < End invariant always holds.
type Job struct {
	Start  uint `json:"start" yaml:"start"`
	End    uint `json:"end" yaml:"end"`
	Profit uint `json:"profit" yaml:"profit"`
}

// New validates and returns a job.
func New(start, end, profit uint) (Job, error) {
	if start >= end {
		return Job{}, fmt.Errorf("%w: start=%d end=%d", ErrInvalidJob, start, end)
	}
	return Job{Start: start, End: end, Profit: profit}, nil
}

// MustNew is New for fixtures and literals known to be valid.
func MustNew(start, end, profit uint) Job {
	j, err := New(start, end, profit)
	if err != nil {
		panic(err)
	}
	return j
}

// Valid reports whether the job satisfies Start < End.
func (j Job) Valid() bool {
	return j.Start < j.End
}

// Follows reports whether j may be placed after a job ending at previousEnd.
// Touching intervals do not qualify.
func (j Job) Follows(previousEnd uint) bool {
	return j.Start > previousEnd
}

// Duration returns End - Start.
func (j Job) Duration() uint {
	return j.End - j.Start
}

func (j Job) String() string {
	return fmt.Sprintf("(%d,%d,%d)", j.Start, j.End, j.Profit)
}

// List is an ordered job list. Order matters: it fixes iteration and
// tie-breaking order everywhere downstream.
type List []Job

// Validate returns an error naming the first job that violates Start < End.
func Validate(jobs []Job) error {
	for idx, j := range jobs {
		if !j.Valid() {
			return fmt.Errorf("jobs[%d]: %w: start=%d end=%d", idx, ErrInvalidJob, j.Start, j.End)
		}
	}
	return nil
}

// Bounds returns the smallest start and largest end over the list. ok is
// false for an empty list.
func (l List) Bounds() (lo, hi uint, ok bool) {
	if len(l) == 0 {
		return 0, 0, false
	}
	lo, hi = l[0].Start, l[0].End
	for _, j := range l[1:] {
		if j.Start < lo {
			lo = j.Start
		}
		if j.End > hi {
			hi = j.End
		}
	}
	return lo, hi, true
}

// TotalProfit sums the profit of every job in the list.
func (l List) TotalProfit() uint64 {
	var total uint64
	for _, j := range l {
		total += uint64(j.Profit)
	}
	return total
}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, j := range l {
		parts[i] = j.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
