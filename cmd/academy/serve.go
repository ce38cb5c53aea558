package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-academy-cms/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *cli) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site, the JSON APIs and the scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.container(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			cfg := app.config
			if address != "" {
				cfg.HTTP.Address = address
			}
			logger := logging.ModuleLogger(container.LoggerProvider(), "academy.serve")

			scheduler, err := container.Scheduler()
			if err != nil {
				return err
			}
			if cfg.Jobs.Enabled() {
				scheduler.Start()
			}

			server := &http.Server{
				Addr:         cfg.HTTP.Address,
				Handler:      container.HTTPServer(),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serve.listening", "address", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("serve.shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := scheduler.Stop(shutdownCtx); err != nil {
				logging.WithError(logger, err).Warn("serve.jobs.stop_failed")
			}
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&address, "addr", "", "listen address, overrides http.address")
	return cmd
}
