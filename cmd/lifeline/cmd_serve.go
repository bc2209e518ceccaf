package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.manager(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(port, m, a.cfg.State.Dir, version, a.logger)
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			if store != nil {
				srv.SetHistory(store)
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port (default: server.port)")

	return cmd
}
