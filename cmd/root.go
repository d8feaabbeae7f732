package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "repohealth",
		Short: "GitHub repository health scanner",
		Long: `A CLI tool that searches GitHub repositories matching a query and
classifies each as healthy, outdated, or potentially broken based on
push recency and open issue counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add check flags to root command so `repohealth` and `repohealth check`
	// work identically
	addCheckFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdCheck(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
