// Package cmd holds the profiled command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profiled",
		Short: "User profile service",
		Long: `profiled serves the user profile API: bearer-token login, profile CRUD with
image attachments, and PDF reports. Configuration is read from the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newKeygenCmd())
	return root
}

// ExecuteContext runs the command tree with ctx, which is cancelled on
// SIGINT or SIGTERM by main.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
