// Package solver drives one run end to end: obtain a job list, build the
// options forest, select the chain, persist a report and journal the outcome.
package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/jobchain/internal/config"
	"github.com/kingrea/jobchain/internal/generator"
	"github.com/kingrea/jobchain/internal/job"
	"github.com/kingrea/jobchain/internal/logbook"
	"github.com/kingrea/jobchain/internal/optree"
	"github.com/kingrea/jobchain/internal/report"
	"github.com/kingrea/jobchain/plugins"
)

// Request selects the job source and per-run overrides. At most one of Jobs,
// SetPath and SetName may be set; when none is, jobs are generated.
type Request struct {
	Jobs    []job.Job
	SetPath string
	SetName string

	// Seed fixes the generator seed; Count overrides the configured count.
	Seed  *int64
	Count int

	// Policy overrides the configured selection policy when non-empty.
	Policy optree.Policy
	// Parallel forces a concurrent build.
	Parallel bool
	// Verify checks forest and chain invariants before returning.
	Verify bool
	// DryRun skips persisting a report.
	DryRun bool
}

// Result is the outcome of a run. NoSchedule is set, with an empty chain and
// zero profit, when no job can start a chain.
type Result struct {
	RunID      string
	Source     report.Source
	Policy     optree.Policy
	Jobs       job.List
	Forest     []*optree.Node
	Chain      optree.Chain
	Stats      optree.Stats
	NoSchedule bool
	Verified   bool
	StartedAt  time.Time
	Elapsed    time.Duration
}

// Solver wires configuration, the run journal and the report store.
type Solver struct {
	cfg     *config.Config
	journal *logbook.Logbook
	store   report.Store
	now     func() time.Time
	seed    func() int64
}

// Option customizes a Solver.
type Option func(*Solver)

// WithLogbook journals runs to lb.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(s *Solver) { s.journal = lb }
}

// WithStore persists reports to store instead of the configured runs dir.
func WithStore(store report.Store) Option {
	return func(s *Solver) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Solver) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeedSource overrides how fresh seeds are drawn when none is fixed.
func WithSeedSource(seed func() int64) Option {
	return func(s *Solver) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// New creates a solver for cfg.
func New(cfg *config.Config, opts ...Option) (*Solver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("solver: config is required")
	}
	s := &Solver{
		cfg:   cfg,
		store: report.NewRepository(cfg.RunsDir()),
		now:   time.Now,
	}
	s.seed = func() int64 { return s.now().UnixNano() }
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run performs a single run.
func (s *Solver) Run(ctx context.Context, req Request) (Result, error) {
	runID := report.NewRunID()
	log := s.journal.Run(runID)
	started := s.now()

	jobs, source, err := s.ResolveJobs(req)
	if err != nil {
		log.Error("resolve jobs: %v", err)
		return Result{}, err
	}
	builder, err := s.builder(req)
	if err != nil {
		log.Error("configure builder: %v", err)
		return Result{}, err
	}
	log.Info("source=%s jobs=%d policy=%s parallel=%t", describeSource(source), len(jobs), builder.Policy, builder.Parallel)

	forest, err := builder.Build(ctx, 0, jobs)
	if err != nil {
		log.Error("build options tree: %v", err)
		return Result{}, fmt.Errorf("solver: build options tree: %w", err)
	}
	result := Result{
		RunID:     runID,
		Source:    source,
		Policy:    builder.Policy,
		Jobs:      jobs,
		Forest:    forest,
		Stats:     optree.Measure(forest),
		StartedAt: started,
	}
	log.Info("forest roots=%d nodes=%d leaves=%d depth=%d", result.Stats.Roots, result.Stats.Nodes, result.Stats.Leaves, result.Stats.MaxDepth)

	chain, err := builder.Select(forest)
	switch {
	case errors.Is(err, optree.ErrNoSchedule):
		result.NoSchedule = true
		result.Chain = optree.Chain{}
		log.Warn("no schedule: no job starts after time 0")
	case err != nil:
		log.Error("select chain: %v", err)
		return Result{}, fmt.Errorf("solver: select chain: %w", err)
	default:
		result.Chain = chain
	}

	if req.Verify || s.cfg.Project.Solver.Verify {
		if err := optree.Verify(0, forest, jobs); err != nil {
			log.Error("verify forest: %v", err)
			return Result{}, fmt.Errorf("solver: %w", err)
		}
		if err := optree.VerifyChain(result.Chain); err != nil {
			log.Error("verify chain: %v", err)
			return Result{}, fmt.Errorf("solver: %w", err)
		}
		result.Verified = true
	}
	result.Elapsed = s.now().Sub(started)

	if !req.DryRun {
		if err := s.store.Save(result.Report()); err != nil {
			log.Error("persist report: %v", err)
			return Result{}, fmt.Errorf("solver: %w", err)
		}
	}
	log.Info("chain jobs=%d profit=%d elapsed=%s", result.Chain.Len(), result.Chain.TotalProfit, result.Elapsed)
	return result, nil
}

// ResolveJobs returns the job list a request refers to, plus a record of
// where it came from.
func (s *Solver) ResolveJobs(req Request) (job.List, report.Source, error) {
	sources := 0
	for _, set := range []bool{req.Jobs != nil, strings.TrimSpace(req.SetPath) != "", strings.TrimSpace(req.SetName) != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, report.Source{}, fmt.Errorf("solver: choose one of inline jobs, a job set path or a job set name")
	}
	switch {
	case req.Jobs != nil:
		if err := job.Validate(req.Jobs); err != nil {
			return nil, report.Source{}, fmt.Errorf("solver: %w", err)
		}
		return job.List(req.Jobs), report.Source{Kind: report.SourceInline}, nil
	case strings.TrimSpace(req.SetPath) != "":
		file, err := plugins.Load(req.SetPath)
		if err != nil {
			return nil, report.Source{}, err
		}
		return fromSetFile(file)
	case strings.TrimSpace(req.SetName) != "":
		file, err := plugins.Find(s.cfg.JobsDir(), req.SetName)
		if err != nil {
			return nil, report.Source{}, err
		}
		return fromSetFile(file)
	}
	opts := s.cfg.GeneratorOptions()
	if req.Count > 0 {
		opts.Count = req.Count
	}
	seed := s.resolveSeed(req)
	gen, err := generator.NewSeeded(opts, seed)
	if err != nil {
		return nil, report.Source{}, fmt.Errorf("solver: %w", err)
	}
	return gen.Generate(), report.Source{Kind: report.SourceGenerator, Seed: &seed}, nil
}

// Report converts the result into its persisted form.
func (r Result) Report() report.Report {
	return report.Report{
		RunID:      r.RunID,
		CreatedAt:  r.StartedAt.UTC(),
		Source:     r.Source,
		Policy:     r.Policy,
		Jobs:       r.Jobs,
		Chain:      r.Chain,
		Stats:      r.Stats,
		NoSchedule: r.NoSchedule,
		Verified:   r.Verified,
		ElapsedMS:  r.Elapsed.Milliseconds(),
	}
}

func (s *Solver) resolveSeed(req Request) int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	if seed, ok := s.cfg.Seed(); ok {
		return seed
	}
	return s.seed()
}

func (s *Solver) builder(req Request) (*optree.Builder, error) {
	builder, err := s.cfg.Builder()
	if err != nil {
		return nil, err
	}
	if req.Policy != "" {
		policy, err := optree.ParsePolicy(string(req.Policy))
		if err != nil {
			return nil, err
		}
		builder.Policy = policy
	}
	if req.Parallel {
		builder.Parallel = true
	}
	return builder, nil
}

func fromSetFile(file plugins.JobSetFile) (job.List, report.Source, error) {
	jobs, err := file.Set.List()
	if err != nil {
		return nil, report.Source{}, err
	}
	return jobs, report.Source{Kind: report.SourceFile, Path: file.Path, Name: file.Set.Name}, nil
}

func describeSource(src report.Source) string {
	switch src.Kind {
	case report.SourceGenerator:
		if src.Seed != nil {
			return fmt.Sprintf("generator(seed=%d)", *src.Seed)
		}
		return "generator"
	case report.SourceFile:
		return fmt.Sprintf("%s(%s)", src.Name, src.Path)
	default:
		return string(src.Kind)
	}
}
