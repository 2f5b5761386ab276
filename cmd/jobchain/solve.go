package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/internal/render"
	"github.com/kingrea/jobchain/internal/solver"
)

func newSolveCmd(opts *rootOptions) *cobra.Command {
	var (
		src       sourceFlags
		parallel  bool
		verify    bool
		showJobs  bool
		showTree  bool
		treeDepth int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Build the options tree once and print the selected chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			req, err := src.request(cmd)
			if err != nil {
				return err
			}
			req.Parallel = parallel
			req.Verify = verify
			s, err := e.solver()
			if err != nil {
				return err
			}
			result, err := s.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result.Report())
			}
			if !cmd.Flags().Changed("tree-depth") {
				treeDepth = e.cfg.Project.Render.TreeDepth
			}
			printResult(out, result, showJobs, showTree, treeDepth)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().BoolVar(&parallel, "parallel", false, "build top-level branches concurrently")
	cmd.Flags().BoolVar(&verify, "verify", false, "check tree and chain invariants")
	cmd.Flags().BoolVar(&showJobs, "show-jobs", false, "print every input job")
	cmd.Flags().BoolVar(&showTree, "tree", false, "print the options tree")
	cmd.Flags().IntVar(&treeDepth, "tree-depth", 0, "levels of the options tree to print (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run report as JSON")
	return cmd
}

func printResult(out io.Writer, result solver.Result, showJobs, showTree bool, treeDepth int) {
	window := render.WindowFor(result.Jobs)
	if showJobs {
		fmt.Fprintln(out, render.Jobs("Jobs", result.Jobs, window))
		fmt.Fprintln(out)
	}
	if showTree {
		fmt.Fprintln(out, render.Forest(result.Forest, result.Policy, treeDepth))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, render.Chain(result.Chain, window))
	fmt.Fprintf(out, "\nrun %s · %d job(s) · %d node(s) · depth %d · policy %s",
		result.RunID, len(result.Jobs), result.Stats.Nodes, result.Stats.MaxDepth, result.Policy)
	if result.Verified {
		fmt.Fprint(out, " · verified")
	}
	fmt.Fprintln(out)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
