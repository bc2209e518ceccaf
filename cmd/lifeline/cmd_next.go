package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/session"
)

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "next",
		Aliases: []string{"advance"},
		Short:   "Mark the current step done and show the next one",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stepOp(cmd, "advancing", (*session.Manager).Advance)
		},
	}
}

func newBackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "back",
		Aliases: []string{"retreat"},
		Short:   "Go back to the previous step",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stepOp(cmd, "going back", (*session.Manager).Retreat)
		},
	}
}

type viewOp func(m *session.Manager, ctx context.Context, id string) (session.View, error)

func (a *app) stepOp(cmd *cobra.Command, what string, op viewOp) error {
	m, err := a.manager(cmd)
	if err != nil {
		return err
	}
	v, err := op(m, cmd.Context(), a.sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	printView(cmd.OutOrStdout(), v)
	return nil
}
