// Package cli defines the sideline command tree.
package cli

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sideline",
		Short:         "sideline: run and review concussion assessment sessions",
		Long:          "sideline administers a module-based concussion assessment from the terminal, accepts hands-free commands over a local HTTP bridge, and stores scored results per session.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newExamCmd(),
		newReportCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
