package optree

import (
	"fmt"
	"strings"

	"github.com/kingrea/jobchain/internal/job"
)

// Policy chooses the key used to pick a child (and a root) to descend into.
type Policy string

const (
	// SelectImmediateProfit compares the profit of the candidate's own job.
	SelectImmediateProfit Policy = "immediate"
	// SelectTotalProfit compares the candidate's cached TotalProfit. This
	// can pick a different chain than the default and must be requested explicitly.
	SelectTotalProfit Policy = "total"
)

// ParsePolicy maps a config or flag value onto a Policy. Empty selects the
// default immediate-profit policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", SelectImmediateProfit:
		return SelectImmediateProfit, nil
	case SelectTotalProfit:
		return SelectTotalProfit, nil
	default:
		return "", fmt.Errorf("optree: unknown selection policy %q (want immediate or total)", value)
	}
}

// Node is one position in a candidate chain. Nodes are never mutated after
// the builder returns them.
type Node struct {
	Job      job.Job
	Children []*Node
	// TotalProfit is Job.Profit plus the TotalProfit of the selected child.
	TotalProfit uint64
	// BestChild indexes Children, or is -1 when nothing was selected.
	BestChild int
}

// Best returns the selected child.
func (n *Node) Best() (*Node, bool) {
	if n == nil || n.BestChild < 0 || n.BestChild >= len(n.Children) {
		return nil, false
	}
	return n.Children[n.BestChild], true
}

// IsLeaf reports whether no job can follow this node.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) key(policy Policy) uint64 {
	if policy == SelectTotalProfit {
		return n.TotalProfit
	}
	return uint64(n.Job.Profit)
}

// BestIndex returns the index of the node the given policy would descend
// into, or -1 for an empty slice.
func BestIndex(nodes []*Node, policy Policy) int {
	return pick(nodes, policy)
}

// pick returns the index of the first node with the maximal key, or -1.
func pick(nodes []*Node, policy Policy) int {
	best := -1
	var bestKey uint64
	for idx, node := range nodes {
		k := node.key(policy)
		if best < 0 || k > bestKey {
			best = idx
			bestKey = k
		}
	}
	return best
}
