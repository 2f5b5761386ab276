package job

import (
	"errors"
	"testing"
)

func TestNewRejectsNonPositiveDuration(t *testing.T) {
	if _, err := New(3, 3, 1); !errors.Is(err, ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob for start == end, got %v", err)
	}
	if _, err := New(5, 2, 1); !errors.Is(err, ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob for start > end, got %v", err)
	}
	j, err := New(1, 3, 50)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if j.Duration() != 2 {
		t.Fatalf("duration = %d, want 2", j.Duration())
	}
}

func TestFollowsIsStrict(t *testing.T) {
	j := MustNew(4, 6, 10)
	if j.Follows(4) {
		t.Fatalf("job starting at 4 must not follow a job ending at 4")
	}
	if !j.Follows(3) {
		t.Fatalf("job starting at 4 should follow a job ending at 3")
	}
}

func TestValidateReportsFirstBadIndex(t *testing.T) {
	jobs := []Job{MustNew(0, 1, 1), {Start: 2, End: 2}, {Start: 5, End: 1}}
	err := Validate(jobs)
	if !errors.Is(err, ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
	if got := err.Error(); got[:8] != "jobs[1]:" {
		t.Fatalf("expected error to name jobs[1], got %q", got)
	}
}

func TestListBoundsAndProfit(t *testing.T) {
	list := List{MustNew(2, 5, 100), MustNew(1, 3, 50), MustNew(4, 6, 10)}
	lo, hi, ok := list.Bounds()
	if !ok || lo != 1 || hi != 6 {
		t.Fatalf("bounds = (%d,%d,%v), want (1,6,true)", lo, hi, ok)
	}
	if list.TotalProfit() != 160 {
		t.Fatalf("total profit = %d, want 160", list.TotalProfit())
	}
	if _, _, ok := List(nil).Bounds(); ok {
		t.Fatalf("empty list must not report bounds")
	}
	if list.String() != "[(2,5,100) (1,3,50) (4,6,10)]" {
		t.Fatalf("unexpected string: %s", list.String())
	}
}
