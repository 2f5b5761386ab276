package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/optree"
)

func TestCellsMarkHalfOpenInterval(t *testing.T) {
	got := Cells(job.MustNew(2, 5, 100), Window{Lo: 0, Hi: 9})
	want := "··███·····"
	if got != want {
		t.Fatalf("cells = %q, want %q", got, want)
	}
}

func TestWindowFor(t *testing.T) {
	w := WindowFor([]job.Job{job.MustNew(3, 6, 1), job.MustNew(4, 12, 1)})
	if w.Lo != 0 || w.Hi != 12 || w.Width() != 13 {
		t.Fatalf("unexpected window %+v", w)
	}
	if empty := WindowFor(nil); empty.Hi != 9 {
		t.Fatalf("expected default window, got %+v", empty)
	}
}

func TestRowsStopAtMaxWidth(t *testing.T) {
	w := Window{Lo: 0, Hi: ^uint(0)}
	if w.Width() != MaxWidth {
		t.Fatalf("width = %d, want %d", w.Width(), MaxWidth)
	}
	wide := job.MustNew(1, ^uint(0), 5)
	if got := utf8.RuneCountInString(Cells(wide, w)); got != MaxWidth {
		t.Fatalf("cells = %d runes, want %d", got, MaxWidth)
	}
	if got := len(Axis(w)); got != MaxWidth {
		t.Fatalf("axis = %d digits, want %d", got, MaxWidth)
	}
	top := Window{Lo: ^uint(0) - 2, Hi: ^uint(0)}
	if got := Cells(job.MustNew(^uint(0)-1, ^uint(0), 1), top); got != "·█·" {
		t.Fatalf("cells at the top of the range = %q", got)
	}
}

func TestChainShowsTotalsAndEmptyCase(t *testing.T) {
	w := Window{Lo: 0, Hi: 9}
	chain := optree.Chain{Jobs: job.List{job.MustNew(2, 5, 100)}, TotalProfit: 100}
	out := Chain(chain, w)
	for _, want := range []string{"Chain (1)", "0123456789", "$100", "total profit 100"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chain output missing %q:\n%s", want, out)
		}
	}
	if empty := Chain(optree.Chain{}, w); !strings.Contains(empty, "no schedule") {
		t.Fatalf("expected no schedule message, got:\n%s", empty)
	}
}

func TestForestStarsBestPathAndTruncates(t *testing.T) {
	list := []job.Job{job.MustNew(1, 3, 50), job.MustNew(4, 6, 10), job.MustNew(2, 5, 100)}
	forest := optree.Build(0, list)
	out := Forest(forest, optree.SelectImmediateProfit, 0)
	if !strings.Contains(out, "★ (2,5,100) Σ100") {
		t.Fatalf("expected best root starred:\n%s", out)
	}
	if !strings.Contains(out, "★ (4,6,10) Σ10") {
		t.Fatalf("expected best child starred:\n%s", out)
	}
	if strings.Contains(out, "★ (1,3,50)") {
		t.Fatalf("non-selected root must not be starred:\n%s", out)
	}
	shallow := Forest(forest, optree.SelectImmediateProfit, 1)
	if !strings.Contains(shallow, "1 more option(s)") || strings.Contains(shallow, "(4,6,10)") {
		t.Fatalf("expected depth-limited rendering:\n%s", shallow)
	}
}
