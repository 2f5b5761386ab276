package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/internal/solver"
	"github.com/kingrea/jobchain/plugins"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		seed  int64
		count int
		out   string
		name  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a generated job list as a YAML job set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			s, err := e.solver()
			if err != nil {
				return err
			}
			req := solver.Request{Count: count}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			jobs, source, err := s.ResolveJobs(req)
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				name = fmt.Sprintf("generated-%d", *source.Seed)
			}
			set := plugins.FromList(name, fmt.Sprintf("generated with seed %d", *source.Seed), jobs)
			if strings.TrimSpace(out) == "" {
				data, err := plugins.MarshalJobSetYAML(set)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := plugins.WriteJobSetFile(out, set); err != nil {
				return err
			}
			e.journal.Info("generated %d job(s) with seed %d into %s", len(jobs), *source.Seed, out)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d job(s) to %s\n", len(jobs), out)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed (defaults to config or a fresh seed)")
	cmd.Flags().IntVar(&count, "count", 0, "number of jobs (defaults to config)")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&name, "name", "", "job set name (defaults to generated-<seed>)")
	return cmd
}
