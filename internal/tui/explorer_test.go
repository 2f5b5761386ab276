package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/optree"
)

func newWorkedExplorer(t *testing.T) *Explorer {
	t.Helper()
	jobs := []job.Job{job.MustNew(1, 3, 50), job.MustNew(4, 6, 10), job.MustNew(2, 5, 100)}
	e := NewExplorer(optree.Build(0, jobs), jobs, optree.SelectImmediateProfit)
	send(t, e, tea.WindowSizeMsg{Width: 100, Height: 40})
	return e
}

func send(t *testing.T, e *Explorer, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := e.Update(msg)
	if model != e {
		t.Fatalf("explorer replaced itself with %T", model)
	}
	return cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExplorerDescendsAndReturns(t *testing.T) {
	e := newWorkedExplorer(t)
	selected, ok := e.Selected()
	if !ok || selected.Job != job.MustNew(1, 3, 50) {
		t.Fatalf("expected first root selected, got %+v", selected)
	}
	send(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	if e.Depth() != 1 || e.Path()[0] != job.MustNew(1, 3, 50) {
		t.Fatalf("expected to descend into (1,3,50), path=%s", e.Path())
	}
	child, ok := e.Selected()
	if !ok || child.Job != job.MustNew(4, 6, 10) {
		t.Fatalf("expected best child selected after descending, got %+v", child)
	}
	if view := e.View(); !strings.Contains(view, "After (1,3,50) ends at 3") {
		t.Fatalf("view missing level title:\n%s", view)
	}
	send(t, e, tea.KeyMsg{Type: tea.KeyEsc})
	if e.Depth() != 0 {
		t.Fatalf("expected to return to the roots, depth=%d", e.Depth())
	}
	back, _ := e.Selected()
	if back.Job != job.MustNew(1, 3, 50) {
		t.Fatalf("expected selection restored, got %s", back.Job)
	}
}

func TestExplorerJumpsToBestAndStopsAtLeaves(t *testing.T) {
	e := newWorkedExplorer(t)
	send(t, e, key('b'))
	best, _ := e.Selected()
	if best.Job != job.MustNew(2, 5, 100) {
		t.Fatalf("expected best root (2,5,100), got %s", best.Job)
	}
	send(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	if e.Depth() != 0 {
		t.Fatalf("leaf must not be descended into")
	}
	if !strings.Contains(e.View(), "is a leaf") {
		t.Fatalf("expected leaf status in view")
	}
}

func TestExplorerQuit(t *testing.T) {
	e := newWorkedExplorer(t)
	cmd := send(t, e, key('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestExplorerEmptyForest(t *testing.T) {
	e := NewExplorer(nil, nil, "")
	send(t, e, tea.KeyMsg{Type: tea.KeyEnter})
	view := e.View()
	if !strings.Contains(view, "No schedule") || !strings.Contains(view, "No job can follow here.") {
		t.Fatalf("unexpected empty view:\n%s", view)
	}
}
