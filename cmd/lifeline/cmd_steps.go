package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/triage"
)

func newStepsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "steps [type]",
		Short: "List guidance steps for the session's incident or an emergency type",
		Long: `With no argument, list the steps of the session's incident and mark
the current one. With a type, print the catalog entry for that type.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeTypes(toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				t, ok := triage.ParseType(args[0])
				if !ok {
					return fmt.Errorf("unknown emergency type %q", args[0])
				}
				steps, ok := guidance.Lookup(t)
				if !ok {
					return fmt.Errorf("no guidance for %q", t)
				}
				fmt.Fprintf(out, "%s (%d steps)\n\n", t.Display(), len(steps))
				printSteps(out, steps, -1)
				return nil
			}

			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			v, err := m.Get(cmd.Context(), a.sessionID)
			if err != nil {
				return fmt.Errorf("loading session: %w", err)
			}
			if !v.Active() {
				return fmt.Errorf("session %s has no incident", v.ID)
			}
			fmt.Fprintf(out, "%s  %s\n\n", v.Classification.Type.Display(), v.Progress())
			printSteps(out, v.Steps, v.CurrentIndex)
			return nil
		},
	}
}

// printSteps lists steps, marking the one at index current.
func printSteps(w io.Writer, steps []guidance.Step, current int) {
	fmt.Fprintf(w, "%-4s  %-4s  %s\n", "", "STEP", "TITLE")
	for i, s := range steps {
		marker := " "
		if i == current {
			marker = ">"
		}
		warn := ""
		if s.HasWarning() {
			warn = "  (!)"
		}
		fmt.Fprintf(w, "%-4s  %-4d  %s%s\n", marker, i+1, s.Title, warn)
	}
}
