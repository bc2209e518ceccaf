package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/config"
	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// --- Dynamic completions ---

func (a *app) completeSessionIDs(toComplete string) ([]string, cobra.ShellCompDirective) {
	dir := config.DefaultStateDir
	if cfg, err := a.config(); err == nil {
		dir = cfg.State.Dir
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, m := range matches {
		id := strings.TrimSuffix(filepath.Base(m), ".yaml")
		if strings.HasPrefix(id, toComplete) {
			ids = append(ids, id)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func completeTypes(toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, t := range guidance.Types() {
		if strings.HasPrefix(string(t), toComplete) {
			names = append(names, string(t))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completePresets(toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, name := range guidance.PresetNames() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// --- Input helpers ---

// description joins args, or reads stdin when the only arg is "-".
func description(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading description: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// --- Rendering ---

func printClassification(w io.Writer, c triage.Classification) {
	fmt.Fprintf(w, "Severity:   %s\n", c.Severity.Display())
	fmt.Fprintf(w, "Type:       %s\n", c.Type.Display())
	fmt.Fprintf(w, "Rule:       %s\n", c.Rule)
	fmt.Fprintf(w, "Reasoning:  %s\n", c.Reasoning)
}

func printBanner(w io.Writer, b triage.Banner, reminder string) {
	fmt.Fprintf(w, "*** %s ***\n%s\n", b.Title, b.Message)
	if reminder != "" {
		fmt.Fprintf(w, "\n>>> %s\n", reminder)
	}
}

func printStep(w io.Writer, step guidance.Step, number, total int) {
	fmt.Fprintf(w, "Step %d of %d: %s\n", number, total, step.Title)
	fmt.Fprintf(w, "  %s\n", step.Instruction)
	for _, d := range step.Details {
		fmt.Fprintf(w, "    - %s\n", d)
	}
	if step.HasWarning() {
		fmt.Fprintf(w, "  WARNING: %s\n", step.Warning)
	}
}

// printView renders the responder's current screen for a session.
func printView(w io.Writer, v session.View) {
	if !v.Active() {
		fmt.Fprintf(w, "Session %s is idle. Start an incident with: lifeline start <description>\n", v.ID)
		return
	}

	printBanner(w, *v.Banner, v.Reminder)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Session:    %s\n", v.ID)
	printClassification(w, *v.Classification)
	fmt.Fprintf(w, "Elapsed:    %s\n", v.Elapsed)
	if v.HasImage {
		fmt.Fprintln(w, "Image:      visible injury reported")
	}
	fmt.Fprintln(w)

	if v.CurrentStep != nil {
		printStep(w, *v.CurrentStep, v.StepNumber, v.TotalSteps)
	}
	if v.Finished {
		fmt.Fprintln(w, "\nAll steps reached. Stay with the person until help arrives.")
	}
}
