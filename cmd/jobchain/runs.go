package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/internal/render"
	"github.com/kingrea/jobchain/internal/report"
)

func newRunsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List persisted runs or show one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			repo := report.NewRepository(e.cfg.RunsDir())
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				rep, err := repo.Load(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, rep)
				}
				fmt.Fprintf(out, "run %s · %s · %s · policy %s\n\n",
					rep.RunID, rep.CreatedAt.Format("2006-01-02 15:04:05"), describe(rep.Source), rep.Policy)
				fmt.Fprintln(out, render.Chain(rep.Chain, render.WindowFor(rep.Jobs)))
				return nil
			}
			reports, err := repo.List()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, reports)
			}
			if len(reports) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			table := newTable(out, "Run", "Created", "Source", "Jobs", "Chain", "Profit")
			for _, rep := range reports {
				table.Append([]string{
					shortID(rep.RunID),
					rep.CreatedAt.Format("2006-01-02 15:04"),
					describe(rep.Source),
					strconv.Itoa(len(rep.Jobs)),
					strconv.Itoa(rep.Chain.Len()),
					strconv.FormatUint(rep.Chain.TotalProfit, 10),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}

func describe(src report.Source) string {
	switch src.Kind {
	case report.SourceGenerator:
		if src.Seed != nil {
			return fmt.Sprintf("seed %d", *src.Seed)
		}
	case report.SourceFile:
		return src.Name
	}
	return string(src.Kind)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
