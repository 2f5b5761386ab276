package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/jobchain/internal/tui"
)

func newExploreCmd(opts *rootOptions) *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the options tree interactively",
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
			req.DryRun = true
			s, err := e.solver()
			if err != nil {
				return err
			}
			result, err := s.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			p := tea.NewProgram(
				tui.NewExplorer(result.Forest, result.Jobs, result.Policy),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}
	src.register(cmd)
	return cmd
}
