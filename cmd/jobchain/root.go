package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/internal/config"
	"github.com/kingrea/jobchain/internal/logbook"
	"github.com/kingrea/jobchain/internal/optree"
	"github.com/kingrea/jobchain/internal/solver"
)

type rootOptions struct {
	projectDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "jobchain",
		Short:         "Explore chains of non-overlapping jobs that maximize profit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.projectDir, "project", "", "project directory (defaults to $JOBCHAIN_HOME or the working directory)")

	root.AddCommand(
		newInitCmd(opts),
		newSolveCmd(opts),
		newGenerateCmd(opts),
		newExploreCmd(opts),
		newRunsCmd(opts),
		newSetsCmd(opts),
	)
	return root
}

// env is what every subcommand needs once the project is resolved.
type env struct {
	cfg     *config.Config
	journal *logbook.Logbook
}

func (o *rootOptions) load() (*env, error) {
	dir, err := config.ResolveProjectDir(o.projectDir)
	if err != nil {
		return nil, err
	}
	if err := config.InitJobchainDir(dir); err != nil {
		return nil, fmt.Errorf("init %s: %w", config.JobchainDir, err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	journal, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, journal: journal}, nil
}

func (e *env) solver() (*solver.Solver, error) {
	return solver.New(e.cfg, solver.WithLogbook(e.journal))
}

// sourceFlags are shared by every command that needs a job list.
type sourceFlags struct {
	seed   int64
	count  int
	jobs   string
	set    string
	policy string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "generator seed (defaults to config or a fresh seed)")
	cmd.Flags().IntVar(&f.count, "count", 0, "number of generated jobs (defaults to config)")
	cmd.Flags().StringVar(&f.jobs, "jobs", "", "job set file (.yaml, .yml or .go)")
	cmd.Flags().StringVar(&f.set, "set", "", "named job set from the project's jobs directory")
	cmd.Flags().StringVar(&f.policy, "policy", "", "selection policy: immediate or total (defaults to config)")
}

func (f *sourceFlags) request(cmd *cobra.Command) (solver.Request, error) {
	req := solver.Request{
		SetPath: f.jobs,
		SetName: f.set,
		Count:   f.count,
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		req.Seed = &seed
	}
	if f.policy != "" {
		policy, err := optree.ParsePolicy(f.policy)
		if err != nil {
			return solver.Request{}, err
		}
		req.Policy = policy
	}
	return req, nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .jobchain/ with a default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			e.journal.Info("project initialized at %s", e.cfg.JobchainProjectDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", e.cfg.ProjectConfigPath())
			return nil
		},
	}
}
