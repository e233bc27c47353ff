// Package main implements the scentquiz server and its admin commands.
package main

import (
	"context"
	"os"

	"github.com/saulo-duarte/scent-quiz/internal/container"
	"github.com/spf13/cobra"
)

var (
	// configPath is an optional YAML file; the environment overrides it.
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scentquiz",
	Short: "Scent preference quiz server",
	Long: `scentquiz serves the scent preference quiz over HTTP and provides
commands to prepare the database and manage stored users.

Settings come from an optional YAML file and the environment, e.g.
DATABASE_DSN, AUTH_JWT_SECRET, QUIZ_FORMULA_POLICY.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML settings file")
}

// withContainer builds the container for one command and closes it after fn.
func withContainer(ctx context.Context, fn func(*container.Container) error) error {
	c, err := container.Load(ctx, configPath)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
