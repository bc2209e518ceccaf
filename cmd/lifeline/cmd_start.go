package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/guidance"
)

func newStartCmd(a *app) *cobra.Command {
	var imagePath string
	var preset string

	cmd := &cobra.Command{
		Use:   "start [description...]",
		Short: "Start an incident in the current session",
		Long: `Classify the description and start step-by-step guidance. Any
incident already running in the session is replaced. Use --preset for
one of the quick-start scenarios, or "-" to read the description from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := description(cmd, args)
			if err != nil {
				return err
			}
			if preset != "" {
				p, ok := guidance.Preset(preset)
				if !ok {
					return fmt.Errorf("unknown preset %q (available: %v)", preset, guidance.PresetNames())
				}
				desc = p
			}
			image, err := readImage(imagePath)
			if err != nil {
				return err
			}

			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			v, err := m.Start(cmd.Context(), a.sessionID, desc, image)
			if err != nil {
				return fmt.Errorf("starting incident: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, guidance.Disclaimer)
			fmt.Fprintln(out)
			printView(out, v)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "path to a photo of the injury")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a quick-start scenario")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completePresets(toComplete)
	})

	return cmd
}
