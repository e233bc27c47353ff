package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/container"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/router"
	"github.com/spf13/cobra"
)

var autoMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server until SIGINT or SIGTERM.

Examples:
  # Serve with a config file
  scentquiz serve --config config.yaml

  # Serve on SQLite, creating tables first
  DATABASE_DSN=quiz.db AUTH_JWT_SECRET=dev scentquiz serve --migrate`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return withContainer(ctx, func(c *container.Container) error {
		log := config.WithContext(ctx)

		if autoMigrate {
			if err := gateway.Migrate(ctx, c.DB); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", c.Settings.Server.Port),
			Handler:      router.New(c.RouterConfig()),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.WithField("addr", srv.Addr).Info("HTTP server listening")
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Info("Shutdown signal received")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), c.Settings.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
			return err
		}
		log.Info("Server stopped")
		return nil
	})
}
