// Package render turns jobs, chains and option forests into terminal text.
// A job is drawn as a fixed-width timeline row with one cell per time unit.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/optree"
)

const (
	cellBusy = "█"
	cellIdle = "·"

	// MaxWidth caps the number of cells in a timeline row.
	MaxWidth = 240
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	profitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	bestStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

// Window is the closed time range [Lo, Hi] a timeline covers.
type Window struct {
	Lo, Hi uint
}

// WindowFor covers every job in the list, falling back to [0, 9].
func WindowFor(jobs []job.Job) Window {
	lo, hi, ok := job.List(jobs).Bounds()
	if !ok {
		return Window{Lo: 0, Hi: 9}
	}
	if lo > 0 {
		lo = 0
	}
	return Window{Lo: lo, Hi: hi}
}

// Width is the number of cells in a row, at most MaxWidth. Times past the
// cap are not drawn.
func (w Window) Width() int {
	if w.Hi < w.Lo {
		return 0
	}
	if w.Hi-w.Lo >= MaxWidth {
		return MaxWidth
	}
	return int(w.Hi-w.Lo) + 1
}

// Axis renders the time labels above timeline rows, one digit per cell.
func Axis(w Window) string {
	var b strings.Builder
	for i := 0; i < w.Width(); i++ {
		fmt.Fprintf(&b, "%d", (w.Lo+uint(i))%10)
	}
	return axisStyle.Render(b.String())
}

// Cells returns the unstyled cells of a row: busy for Start <= t < End.
func Cells(j job.Job, w Window) string {
	var b strings.Builder
	for i := 0; i < w.Width(); i++ {
		t := w.Lo + uint(i)
		if t >= j.Start && t < j.End {
			b.WriteString(cellBusy)
		} else {
			b.WriteString(cellIdle)
		}
	}
	return b.String()
}

// TimelineRow renders a job as its cells followed by its interval and profit.
func TimelineRow(j job.Job, w Window) string {
	label := fmt.Sprintf(" %2d→%-2d", j.Start, j.End)
	return busyStyle.Render(Cells(j, w)) + label + " " + profitStyle.Render(fmt.Sprintf("$%d", j.Profit))
}

// Jobs renders a list of jobs under a shared axis.
func Jobs(title string, jobs []job.Job, w Window) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(jobs))), Axis(w)}
	for _, j := range jobs {
		lines = append(lines, TimelineRow(j, w))
	}
	return strings.Join(lines, "\n")
}

// Chain renders the selected chain with a total line. An empty chain is shown
// as "no schedule" with zero profit.
func Chain(chain optree.Chain, w Window) string {
	if chain.Len() == 0 {
		return strings.Join([]string{
			titleStyle.Render("Chain"),
			emptyStyle.Render("no schedule · total profit 0"),
		}, "\n")
	}
	body := Jobs("Chain", chain.Jobs, w)
	total := totalStyle.Render(fmt.Sprintf("total profit %d over %d job(s)", chain.TotalProfit, chain.Len()))
	return body + "\n" + total
}

// NodeLabel describes a node as its job, cached total and best marker.
func NodeLabel(node *optree.Node, best bool) string {
	text := fmt.Sprintf("%s Σ%d", node.Job, node.TotalProfit)
	if best {
		return bestStyle.Render("★ " + text)
	}
	return defaultStyle.Render(text)
}

// Forest renders the options tree down to maxDepth levels (0 means no limit).
// The root the policy selects and every BestChild edge are starred.
func Forest(forest []*optree.Node, policy optree.Policy, maxDepth int) string {
	root := tree.New().Root(titleStyle.Render(fmt.Sprintf("options (%d)", len(forest))))
	bestRoot := optree.BestIndex(forest, policy)
	for idx, node := range forest {
		root.Child(subtree(node, idx == bestRoot, 1, maxDepth))
	}
	root.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(branchStyle)
	return root.String()
}

func subtree(node *optree.Node, best bool, depth, maxDepth int) any {
	label := NodeLabel(node, best)
	if node.IsLeaf() {
		return label
	}
	t := tree.New().Root(label)
	if maxDepth > 0 && depth >= maxDepth {
		t.Child(axisStyle.Render(fmt.Sprintf("… %d more option(s)", len(node.Children))))
		return t
	}
	for idx, child := range node.Children {
		t.Child(subtree(child, idx == node.BestChild, depth+1, maxDepth))
	}
	return t
}
