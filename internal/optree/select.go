package optree

import (
	"errors"

	"github.com/kingrea/jobchain/internal/job"
)

// ErrNoSchedule is returned when the forest is empty and no job can start a
// chain. It is an expected outcome: callers should report an empty chain with
// zero profit.
var ErrNoSchedule = errors.New("optree: no schedule exists")

// Chain is the sequence of jobs visited from the chosen root along BestChild
// pointers, in chronological order.
type Chain struct {
	Jobs        job.List `json:"jobs"`
	TotalProfit uint64   `json:"total_profit"`
}

// Len returns the number of jobs in the chain.
func (c Chain) Len() int {
	return len(c.Jobs)
}

// SelectBest picks the root whose own job pays the most (first one wins on a
// tie) and follows its BestChild pointers to a leaf.
func SelectBest(forest []*Node) (Chain, error) {
	return selectChain(forest, SelectImmediateProfit)
}

func selectChain(forest []*Node, policy Policy) (Chain, error) {
	idx := pick(forest, policy)
	if idx < 0 {
		return Chain{}, ErrNoSchedule
	}
	root := forest[idx]
	chain := Chain{TotalProfit: root.TotalProfit}
	for node, ok := root, true; ok; node, ok = node.Best() {
		chain.Jobs = append(chain.Jobs, node.Job)
	}
	return chain, nil
}
