package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Preflight - validate AWS prerequisites before running Terraform",
	Long: `Preflight validates the AWS prerequisites of the portfolio-github-management
pipeline: credentials, the CloudFormation bootstrap stack, the Terraform state
bucket, the GitHub Actions deployment role, and the GitHub OIDC provider.

Every check is a read-only query; nothing in the account is modified.`,
	SilenceUsage: true,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
