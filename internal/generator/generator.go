// Package generator produces random job lists from an explicit, seedable
// source so a run can be reproduced exactly from its seed.
package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kingrea/jobchain/internal/job"
)

const (
	DefaultCount     = 100
	DefaultMinTime   = 0
	DefaultMaxTime   = 9
	DefaultMaxProfit = 9
)

// Options bounds the generated jobs. Times are drawn from [MinTime, MaxTime]
// and profits from [0, MaxProfit].
type Options struct {
	Count     int  `json:"count" yaml:"count"`
	MinTime   uint `json:"min_time" yaml:"min_time"`
	MaxTime   uint `json:"max_time" yaml:"max_time"`
	MaxProfit uint `json:"max_profit" yaml:"max_profit"`
}

// DefaultOptions asks for 100 jobs on [0, 9] with profits up to 9.
func DefaultOptions() Options {
	return Options{
		Count:     DefaultCount,
		MinTime:   DefaultMinTime,
		MaxTime:   DefaultMaxTime,
		MaxProfit: DefaultMaxProfit,
	}
}

// Validate rejects ranges that cannot hold a job.
func (o Options) Validate() error {
	if o.Count < 0 {
		return fmt.Errorf("generator: count must be >= 0, got %d", o.Count)
	}
	if o.MaxTime <= o.MinTime {
		return fmt.Errorf("generator: max_time %d must exceed min_time %d", o.MaxTime, o.MinTime)
	}
	if uint64(o.MaxTime-o.MinTime) > math.MaxInt64 {
		return fmt.Errorf("generator: time range [%d, %d] is too wide", o.MinTime, o.MaxTime)
	}
	if uint64(o.MaxProfit) >= math.MaxInt64 {
		return fmt.Errorf("generator: max_profit %d must be below %d", o.MaxProfit, uint64(math.MaxInt64))
	}
	return nil
}

// Generator draws jobs from its own random source.
type Generator struct {
	opts Options
	rng  *rand.Rand
}

// New returns a generator that draws from rng.
func New(opts Options, rng *rand.Rand) (*Generator, error) {
	if rng == nil {
		return nil, fmt.Errorf("generator: random source is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, rng: rng}, nil
}

// NewSeeded returns a generator over rand.NewSource(seed).
func NewSeeded(opts Options, seed int64) (*Generator, error) {
	return New(opts, rand.New(rand.NewSource(seed)))
}

// Options returns the bounds the generator was created with.
func (g *Generator) Options() Options {
	return g.opts
}

// Next draws one job. Start falls in [MinTime, MaxTime-1] and End in
// (Start, MaxTime], so every job is valid.
func (g *Generator) Next() job.Job {
	span := g.opts.MaxTime - g.opts.MinTime
	start := g.opts.MinTime + uint(g.rng.Int63n(int64(span)))
	end := start + 1 + uint(g.rng.Int63n(int64(g.opts.MaxTime-start)))
	profit := uint(g.rng.Int63n(int64(g.opts.MaxProfit) + 1))
	return job.MustNew(start, end, profit)
}

// Generate draws Count jobs.
func (g *Generator) Generate() job.List {
	jobs := make(job.List, 0, g.opts.Count)
	for i := 0; i < g.opts.Count; i++ {
		jobs = append(jobs, g.Next())
	}
	return jobs
}
