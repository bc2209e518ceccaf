package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/provider/vision"
	"github.com/shahar-caura/lifeline/internal/triage"
)

func newClassifyCmd(a *app) *cobra.Command {
	var imagePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <description...>",
		Short: "Classify a description without starting an incident",
		Long: `Classify a described emergency and print its severity, type and
the rule that matched. Pass "-" to read the description from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := description(cmd, args)
			if err != nil {
				return err
			}
			image, err := readImage(imagePath)
			if err != nil {
				return err
			}
			hasImage, err := vision.Presence{}.HasVisibleInjury(cmd.Context(), image)
			if err != nil {
				a.logger.Warn("image check failed", "error", err)
			}

			c := triage.Classify(desc, hasImage)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			}

			printClassification(out, c)
			fmt.Fprintf(out, "Steps:      %d\n", len(guidance.StepsFor(c.Type)))
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "path to a photo of the injury")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the classification as JSON")

	return cmd
}
