package main

import (
	"context"
	"fmt"
	"time"

	"github.com/saulo-duarte/scent-quiz/internal/container"
	"github.com/saulo-duarte/scent-quiz/internal/gateway"
	"github.com/saulo-duarte/scent-quiz/internal/seed"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		return withContainer(ctx, func(c *container.Container) error {
			if err := gateway.Migrate(ctx, c.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample scent notes, questions and mood suggestions",
	Long: `Load the sample catalog into an already migrated database.

Running seed again only adds what is missing; the question bank is left
alone once it holds any question.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		return withContainer(ctx, func(c *container.Container) error {
			report, err := seed.Run(ctx, c.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d notes, %d questions, %d suggestions\n",
				report.Notes, report.Questions, report.Suggestions)
			return nil
		})
	},
}
