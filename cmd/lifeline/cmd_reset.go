package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "End the incident and return the session to idle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			if _, err := m.Reset(cmd.Context(), a.sessionID); err != nil {
				return fmt.Errorf("resetting session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset.\n", a.sessionID)
			return nil
		},
	}
}
