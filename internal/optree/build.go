package optree

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kingrea/jobchain/internal/job"
)

// ErrTreeTooLarge is returned when a build exceeds Builder.MaxNodes.
var ErrTreeTooLarge = errors.New("optree: options tree exceeds node limit")

// Build returns the options forest for every job that may follow a job ending
// at previousEnd. The same jobs slice is consulted at every level; only the
// lower bound moves. Pass 0 for "nothing placed yet".
//
// Jobs violating Start < End are never candidates. Use job.New to reject them
// before they get this far.
func Build(previousEnd uint, jobs []job.Job) []*Node {
	run := &buildRun{jobs: jobs, policy: SelectImmediateProfit}
	forest, _ := run.options(context.Background(), previousEnd, 0)
	return forest
}

// Builder runs the same algorithm as Build with a configurable selection
// policy, optional concurrency near the top of the tree and a node limit.
// The zero value behaves like Build.
type Builder struct {
	Policy Policy
	// Parallel builds branch-set subtrees concurrently for the first
	// ParallelDepth levels. Results keep their sequential positions, so the
	// forest is identical to a sequential build.
	Parallel      bool
	ParallelDepth int
	// MaxNodes aborts the build with ErrTreeTooLarge once more nodes than this
	// have been created. Values <= 0 disable the limit.
	MaxNodes int
}

// Build validates jobs and constructs the forest. It returns ctx.Err() if the
// context is cancelled while nodes are still being built.
func (b *Builder) Build(ctx context.Context, previousEnd uint, jobs []job.Job) ([]*Node, error) {
	if err := job.Validate(jobs); err != nil {
		return nil, fmt.Errorf("optree: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	run := &buildRun{
		jobs:     jobs,
		policy:   b.policy(),
		maxNodes: int64(b.MaxNodes),
	}
	if b.Parallel {
		run.parallelDepth = b.ParallelDepth
		if run.parallelDepth <= 0 {
			run.parallelDepth = 1
		}
	}
	return run.options(ctx, previousEnd, 0)
}

// Select extracts the chain from a forest using the builder's policy.
func (b *Builder) Select(forest []*Node) (Chain, error) {
	return selectChain(forest, b.policy())
}

func (b *Builder) policy() Policy {
	if b == nil || b.Policy == "" {
		return SelectImmediateProfit
	}
	return b.Policy
}

type buildRun struct {
	jobs          []job.Job
	policy        Policy
	parallelDepth int
	maxNodes      int64
	created       atomic.Int64
}

// options returns one node per job in the branch set after previousEnd.
func (r *buildRun) options(ctx context.Context, previousEnd uint, depth int) ([]*Node, error) {
	earliestEnd, ok := r.earliestEnd(previousEnd)
	if !ok {
		return nil, nil
	}
	branch := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if r.candidate(j, previousEnd) && j.Start <= earliestEnd {
			branch = append(branch, j)
		}
	}
	nodes := make([]*Node, len(branch))
	if depth < r.parallelDepth && len(branch) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for idx, j := range branch {
			idx, j := idx, j
			g.Go(func() error {
				node, err := r.node(gctx, j, depth)
				if err != nil {
					return err
				}
				nodes[idx] = node
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return nodes, nil
	}
	for idx, j := range branch {
		node, err := r.node(ctx, j, depth)
		if err != nil {
			return nil, err
		}
		nodes[idx] = node
	}
	return nodes, nil
}

func (r *buildRun) node(ctx context.Context, j job.Job, depth int) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created := r.created.Add(1)
	if r.maxNodes > 0 && created > r.maxNodes {
		return nil, fmt.Errorf("%w (limit %d)", ErrTreeTooLarge, r.maxNodes)
	}
	children, err := r.options(ctx, j.End, depth+1)
	if err != nil {
		return nil, err
	}
	node := &Node{
		Job:         j,
		Children:    children,
		TotalProfit: uint64(j.Profit),
		BestChild:   pick(children, r.policy),
	}
	if best, ok := node.Best(); ok {
		node.TotalProfit += best.TotalProfit
	}
	return node, nil
}

func (r *buildRun) candidate(j job.Job, previousEnd uint) bool {
	return j.Valid() && j.Follows(previousEnd)
}

// earliestEnd is the minimum End over the legal candidates after previousEnd.
func (r *buildRun) earliestEnd(previousEnd uint) (uint, bool) {
	var earliest uint
	found := false
	for _, j := range r.jobs {
		if !r.candidate(j, previousEnd) {
			continue
		}
		if !found || j.End < earliest {
			earliest = j.End
			found = true
		}
	}
	return earliest, found
}
