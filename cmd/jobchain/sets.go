package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/plugins"
)

func newSetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the named job sets in the project's jobs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			sets, err := plugins.Discover(e.cfg.JobsDir())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sets) == 0 {
				fmt.Fprintf(out, "No job sets in %s\n", e.cfg.JobsDir())
				return nil
			}
			table := newTable(out, "Name", "Jobs", "Path", "Description")
			for _, file := range sets {
				table.Append([]string{file.Set.Name, strconv.Itoa(len(file.Set.Jobs)), file.Path, file.Set.Description})
			}
			table.Render()
			return nil
		},
	}
}
