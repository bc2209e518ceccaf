package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLogCmd(a *app) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "log <action...>",
		Short: "Record an action taken by the responder",
		Long: `Record an action against a step. The action is stored as
"Step N: <text>". Without --step the current step is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("action text is required")
			}

			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			v, err := m.LogAction(cmd.Context(), a.sessionID, step, text)
			if err != nil {
				return fmt.Errorf("logging action: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged: %s\n", v.Actions[len(v.Actions)-1])
			fmt.Fprintf(out, "%d action(s) recorded.\n", len(v.Actions))
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "step number the action belongs to (default: current step)")

	return cmd
}
