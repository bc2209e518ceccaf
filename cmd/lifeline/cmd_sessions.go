package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			views, err := m.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}

			fmt.Fprintf(out, "%-24s  %-8s  %-10s  %-20s  %-12s  %s\n", "ID", "STATUS", "SEVERITY", "TYPE", "PROGRESS", "UPDATED")
			for _, v := range views {
				severity, typ, progress := "-", "-", "-"
				if v.Active() {
					severity = v.Classification.Severity.Display()
					typ = v.Classification.Type.Display()
					progress = fmt.Sprintf("%d/%d", v.StepNumber, v.TotalSteps)
				}
				fmt.Fprintf(out, "%-24s  %-8s  %-10s  %-20s  %-12s  %s\n",
					v.ID, v.Status, severity, typ, progress,
					v.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		},
	}

	cmd.AddCommand(newSessionsDeleteCmd(a))
	return cmd
}

func newSessionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <session-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a session and its incident",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return a.completeSessionIDs(toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			if err := m.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}
