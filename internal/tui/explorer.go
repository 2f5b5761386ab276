// internal/tui/explorer.go
//
// The explorer lets a user walk the options forest one level at a time.
// It follows The Elm Architecture like every bubbletea program:
//
// 1. Model: the forest, the path walked so far and the list for this level
// 2. Update: keys move down into a node's options or back up the path
// 3. View: breadcrumb timeline, the level list and a key hint

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/optree"
	"github.com/kingrea/jobchain/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	pathStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// nodeItem implements list.Item for one option at the current level.
type nodeItem struct {
	node *optree.Node
	best bool
}

func (i nodeItem) Title() string {
	marker := "  "
	if i.best {
		marker = "★ "
	}
	return marker + i.node.Job.String()
}

func (i nodeItem) Description() string {
	options := len(i.node.Children)
	return fmt.Sprintf("Σ%d · %d follow-on option(s)", i.node.TotalProfit, options)
}

func (i nodeItem) FilterValue() string { return i.node.Job.String() }

// Explorer is the bubbletea model for browsing a forest.
type Explorer struct {
	forest []*optree.Node
	policy optree.Policy
	window render.Window
	chain  optree.Chain

	// path holds the nodes descended into, root first.
	path []*optree.Node
	// cursor remembers the selection at each ancestor level.
	cursor []int

	list   list.Model
	status string
	width  int
	height int
}

// NewExplorer builds an explorer over a forest built from jobs with policy.
func NewExplorer(forest []*optree.Node, jobs []job.Job, policy optree.Policy) *Explorer {
	if policy == "" {
		policy = optree.SelectImmediateProfit
	}
	levelList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	levelList.SetShowStatusBar(false)
	levelList.SetFilteringEnabled(false)
	levelList.SetShowHelp(false)
	e := &Explorer{
		forest: forest,
		policy: policy,
		window: render.WindowFor(jobs),
		list:   levelList,
	}
	if len(forest) == 0 {
		e.status = "No schedule: no job starts after time 0."
	} else {
		e.chain, _ = (&optree.Builder{Policy: policy}).Select(forest)
		e.status = fmt.Sprintf("Best chain pays %d over %d job(s).", e.chain.TotalProfit, e.chain.Len())
	}
	e.loadLevel(0)
	return e
}

// Init is called once when the program starts.
func (e *Explorer) Init() tea.Cmd {
	return nil
}

// Update handles window resizes and navigation keys.
func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.resizeList()
		return e, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return e, tea.Quit
		case "enter", "right", "l":
			e.descend()
			return e, nil
		case "backspace", "esc", "left", "h":
			e.ascend()
			return e, nil
		case "b":
			e.selectBest()
			return e, nil
		}
	}
	var cmd tea.Cmd
	e.list, cmd = e.list.Update(msg)
	return e, cmd
}

// View renders the breadcrumb, the current level and the key hint.
func (e *Explorer) View() string {
	sections := []string{headerStyle.Render("⬡ JOBCHAIN · options explorer")}
	sections = append(sections, pathStyle.Render(e.renderPath()))
	if len(e.list.Items()) == 0 {
		sections = append(sections, statusStyle.Render("No job can follow here."))
	} else {
		sections = append(sections, e.list.View())
	}
	sections = append(sections,
		hintStyle.Render("Enter → options    Esc → back    b → best    q → quit"),
		statusStyle.Render(e.status),
	)
	return strings.Join(sections, "\n")
}

// Depth reports how many nodes have been descended into.
func (e *Explorer) Depth() int {
	return len(e.path)
}

// Path returns the jobs descended into, root first.
func (e *Explorer) Path() job.List {
	out := make(job.List, len(e.path))
	for idx, node := range e.path {
		out[idx] = node.Job
	}
	return out
}

// Selected returns the highlighted option at the current level.
func (e *Explorer) Selected() (*optree.Node, bool) {
	item, ok := e.list.SelectedItem().(nodeItem)
	if !ok {
		return nil, false
	}
	return item.node, true
}

func (e *Explorer) level() ([]*optree.Node, int) {
	if len(e.path) == 0 {
		return e.forest, optree.BestIndex(e.forest, e.policy)
	}
	parent := e.path[len(e.path)-1]
	return parent.Children, parent.BestChild
}

func (e *Explorer) loadLevel(selected int) {
	nodes, best := e.level()
	items := make([]list.Item, len(nodes))
	for idx, node := range nodes {
		items[idx] = nodeItem{node: node, best: idx == best}
	}
	e.list.SetItems(items)
	e.list.Title = e.levelTitle()
	if selected >= 0 && selected < len(items) {
		e.list.Select(selected)
	}
}

func (e *Explorer) levelTitle() string {
	if len(e.path) == 0 {
		return fmt.Sprintf("Start options (%d)", len(e.forest))
	}
	parent := e.path[len(e.path)-1]
	return fmt.Sprintf("After %s ends at %d (%d)", parent.Job, parent.Job.End, len(parent.Children))
}

func (e *Explorer) descend() {
	node, ok := e.Selected()
	if !ok {
		return
	}
	if node.IsLeaf() {
		e.status = fmt.Sprintf("%s is a leaf: nothing can follow it.", node.Job)
		return
	}
	e.cursor = append(e.cursor, e.list.Index())
	e.path = append(e.path, node)
	e.loadLevel(max(node.BestChild, 0))
	e.status = fmt.Sprintf("Descended into %s.", node.Job)
}

func (e *Explorer) ascend() {
	if len(e.path) == 0 {
		return
	}
	e.path = e.path[:len(e.path)-1]
	last := e.cursor[len(e.cursor)-1]
	e.cursor = e.cursor[:len(e.cursor)-1]
	e.loadLevel(last)
	e.status = "Back up one level."
}

func (e *Explorer) selectBest() {
	_, best := e.level()
	if best < 0 {
		return
	}
	e.list.Select(best)
}

func (e *Explorer) renderPath() string {
	if len(e.path) == 0 {
		return render.Axis(e.window) + "\n" + statusStyle.Render("(nothing placed yet)")
	}
	lines := []string{render.Axis(e.window)}
	for _, node := range e.path {
		lines = append(lines, render.TimelineRow(node.Job, e.window))
	}
	return strings.Join(lines, "\n")
}

func (e *Explorer) resizeList() {
	pathHeight := len(e.path) + 4
	e.list.SetSize(max(0, e.width-4), max(0, e.height-pathHeight-6))
}
