package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/session"
)

func newSummaryCmd(a *app) *cobra.Command {
	var exportIt, speak, toggle bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the paramedic handoff summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if toggle {
				v, err := m.ToggleSummary(ctx, a.sessionID)
				if err != nil {
					return fmt.Errorf("toggling summary: %w", err)
				}
				if v.ViewingSummary {
					fmt.Fprintln(out, "Summary shown on the dashboard.")
				} else {
					fmt.Fprintln(out, "Summary hidden on the dashboard.")
				}
				return nil
			}

			text, err := m.Summary(ctx, a.sessionID)
			if err != nil {
				return fmt.Errorf("generating summary: %w", err)
			}
			fmt.Fprint(out, text)

			if exportIt {
				exp, err := m.Export(ctx, a.sessionID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nExported %s to %s\n", exp.Filename, exp.Location)
			}
			if speak {
				if err := m.Speak(ctx, a.sessionID, session.SpeakSummary); err != nil {
					return fmt.Errorf("reading summary aloud: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exportIt, "export", false, "save the summary to the configured export store")
	cmd.Flags().BoolVar(&speak, "speak", false, "read the summary aloud")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "toggle the summary panel instead of printing")

	return cmd
}
