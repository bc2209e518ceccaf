package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNotesCmd(a *app) *cobra.Command {
	var clearNotes bool

	cmd := &cobra.Command{
		Use:   "notes [text...]",
		Short: "Set the incident's additional notes",
		Long:  `Replace the notes included in the handoff summary. With no text, print the current notes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 && !clearNotes {
				v, err := m.Get(cmd.Context(), a.sessionID)
				if err != nil {
					return fmt.Errorf("loading session: %w", err)
				}
				if v.Notes == "" {
					fmt.Fprintln(out, "No notes.")
					return nil
				}
				fmt.Fprintln(out, v.Notes)
				return nil
			}

			text := strings.Join(args, " ")
			if clearNotes {
				text = ""
			}
			if _, err := m.SetNotes(cmd.Context(), a.sessionID, text); err != nil {
				return fmt.Errorf("setting notes: %w", err)
			}
			if clearNotes {
				fmt.Fprintln(out, "Notes cleared.")
			} else {
				fmt.Fprintln(out, "Notes saved.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearNotes, "clear", false, "remove all notes")

	return cmd
}
