package optree

import (
	"errors"
	"fmt"

	"github.com/kingrea/jobchain/internal/job"
)

// ErrInvariant marks a forest or chain that breaks a structural guarantee.
var ErrInvariant = errors.New("optree: invariant violated")

// Stats summarizes the shape of a forest.
type Stats struct {
	Roots    int `json:"roots"`
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"max_depth"`
}

// Measure walks the forest once and returns its Stats. Roots sit at depth 1.
func Measure(forest []*Node) Stats {
	stats := Stats{Roots: len(forest)}
	Walk(forest, func(path []*Node) bool {
		node := path[len(path)-1]
		stats.Nodes++
		if node.IsLeaf() {
			stats.Leaves++
		}
		if len(path) > stats.MaxDepth {
			stats.MaxDepth = len(path)
		}
		return true
	})
	return stats
}

// Walk visits every node depth first in child order. fn receives the path
// from the root to the visited node; returning false skips its children.
func Walk(forest []*Node, fn func(path []*Node) bool) {
	var visit func(path []*Node)
	visit = func(path []*Node) {
		if !fn(path) {
			return
		}
		node := path[len(path)-1]
		for _, child := range node.Children {
			visit(append(path, child))
		}
	}
	for _, root := range forest {
		visit([]*Node{root})
	}
}

// Verify checks a forest built from jobs after previousEnd against the
// builder's guarantees: every child starts strictly after its parent ends,
// every node's children are exactly its bounded branch set, cached totals
// agree with BestChild, and depth never exceeds len(jobs).
func Verify(previousEnd uint, forest []*Node, jobs []job.Job) error {
	if err := verifyLevel(previousEnd, forest, jobs, "root"); err != nil {
		return err
	}
	var failure error
	Walk(forest, func(path []*Node) bool {
		if failure != nil {
			return false
		}
		node := path[len(path)-1]
		label := pathLabel(path)
		if len(path) > len(jobs) {
			failure = fmt.Errorf("%w: %s: depth %d exceeds %d jobs", ErrInvariant, label, len(path), len(jobs))
			return false
		}
		if err := verifyTotal(node, label); err != nil {
			failure = err
			return false
		}
		if err := verifyLevel(node.Job.End, node.Children, jobs, label); err != nil {
			failure = err
			return false
		}
		return true
	})
	return failure
}

// VerifyChain checks that a chain is strictly time ordered, non-overlapping
// and that its total equals the sum of its profits.
func VerifyChain(chain Chain) error {
	for idx := 1; idx < len(chain.Jobs); idx++ {
		prev, cur := chain.Jobs[idx-1], chain.Jobs[idx]
		if !cur.Follows(prev.End) {
			return fmt.Errorf("%w: chain[%d] %s overlaps %s", ErrInvariant, idx, cur, prev)
		}
	}
	if sum := chain.Jobs.TotalProfit(); sum != chain.TotalProfit {
		return fmt.Errorf("%w: chain total %d, jobs sum to %d", ErrInvariant, chain.TotalProfit, sum)
	}
	return nil
}

func verifyTotal(node *Node, label string) error {
	want := uint64(node.Job.Profit)
	if node.BestChild >= len(node.Children) || node.BestChild < -1 {
		return fmt.Errorf("%w: %s: best child %d out of range", ErrInvariant, label, node.BestChild)
	}
	if best, ok := node.Best(); ok {
		want += best.TotalProfit
	} else if len(node.Children) > 0 {
		return fmt.Errorf("%w: %s: children present but none selected", ErrInvariant, label)
	}
	if node.TotalProfit != want {
		return fmt.Errorf("%w: %s: total profit %d, want %d", ErrInvariant, label, node.TotalProfit, want)
	}
	return nil
}

// verifyLevel checks legality, the fan-out bound and completeness for the
// nodes placed after previousEnd.
func verifyLevel(previousEnd uint, nodes []*Node, jobs []job.Job, label string) error {
	earliest, found := uint(0), false
	for _, j := range jobs {
		if j.Valid() && j.Follows(previousEnd) && (!found || j.End < earliest) {
			earliest, found = j.End, true
		}
	}
	expected := 0
	for _, j := range jobs {
		if found && j.Valid() && j.Follows(previousEnd) && j.Start <= earliest {
			expected++
		}
	}
	if len(nodes) != expected {
		return fmt.Errorf("%w: %s: %d options, want %d", ErrInvariant, label, len(nodes), expected)
	}
	for _, node := range nodes {
		if !node.Job.Follows(previousEnd) {
			return fmt.Errorf("%w: %s: option %s does not start after %d", ErrInvariant, label, node.Job, previousEnd)
		}
		if node.Job.Start > earliest {
			return fmt.Errorf("%w: %s: option %s starts after earliest end %d", ErrInvariant, label, node.Job, earliest)
		}
	}
	return nil
}

func pathLabel(path []*Node) string {
	label := ""
	for idx, node := range path {
		if idx > 0 {
			label += "→"
		}
		label += node.Job.String()
	}
	return label
}
