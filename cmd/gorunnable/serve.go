package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/gorunnable/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipelines over HTTP",
		Long:  `Starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts down gracefully.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			cfg := a.cfg.Server
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			srv := server.New(cfg, a.catalog, a.log,
				server.WithServiceName(a.cfg.Name),
				server.WithMetrics(a.metrics),
				server.WithHealthCheckers(a.checkers...),
			)
			if err := srv.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			a.log.Info("Shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides server.port)")
	return cmd
}
