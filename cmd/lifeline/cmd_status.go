package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/session"
)

func newStatusCmd(a *app) *cobra.Command {
	var speak bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session's incident and current step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			v, err := m.Get(cmd.Context(), a.sessionID)
			if errors.Is(err, session.ErrNotFound) {
				v, err = session.View{ID: a.sessionID}, nil
			}
			if err != nil {
				return fmt.Errorf("loading session: %w", err)
			}
			printView(cmd.OutOrStdout(), v)

			if speak && v.CurrentStep != nil {
				if err := m.Speak(cmd.Context(), a.sessionID, session.SpeakStep); err != nil {
					return fmt.Errorf("reading step aloud: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&speak, "speak", false, "read the current instruction aloud")

	return cmd
}
