package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/incident"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived incidents",
		Long:  `List incidents archived on reset. Requires archive.driver in the config.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("no archive configured (set archive.driver and archive.dsn)")
			}

			sessionID := a.sessionID
			if all {
				sessionID = ""
			}
			entries, err := store.Recent(cmd.Context(), sessionID, limit)
			if err != nil {
				return fmt.Errorf("reading archive: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No archived incidents.")
				return nil
			}

			fmt.Fprintf(out, "%-20s  %-16s  %-10s  %-20s  %-8s  %-6s  %s\n", "ARCHIVED", "SESSION", "SEVERITY", "TYPE", "ELAPSED", "STEPS", "ACTIONS")
			for _, e := range entries {
				fmt.Fprintf(out, "%-20s  %-16s  %-10s  %-20s  %-8s  %-6s  %d\n",
					e.ArchivedAt.Local().Format("2006-01-02 15:04:05"),
					e.SessionID,
					e.Severity.Display(),
					e.Type.Display(),
					incident.FormatElapsed(e.Elapsed),
					fmt.Sprintf("%d/%d", e.StepsCompleted, e.TotalSteps),
					e.Actions,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of incidents to show")
	cmd.Flags().BoolVar(&all, "all", false, "show incidents from every session")

	return cmd
}
