package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCleanupCmd(a *app) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete sessions idle longer than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("retention") {
				retention = a.cfg.State.Retention.Duration
			}

			removed, err := m.Cleanup(cmd.Context(), retention)
			if err != nil {
				return fmt.Errorf("cleaning up sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(removed) == 0 {
				fmt.Fprintln(out, "Nothing to clean up.")
				return nil
			}
			for _, id := range removed {
				fmt.Fprintf(out, "Removed %s\n", id)
			}
			fmt.Fprintf(out, "Removed %d session(s).\n", len(removed))
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 0, "remove sessions idle longer than this (default: state.retention)")

	return cmd
}
