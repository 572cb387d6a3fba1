package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/williambrady/preflight"
	"github.com/williambrady/preflight/pkg/awscfg"
	"github.com/williambrady/preflight/pkg/checks"
	"github.com/williambrady/preflight/pkg/configfile"
	"github.com/williambrady/preflight/pkg/report"
)

var (
	checkProfile    string
	checkRegion     string
	checkStackName  string
	checkBucketName string
	checkRoleName   string
	checkGitHubOrg  string
	checkGitHubRepo string

	checkAccessKeyID     string
	checkSecretAccessKey string
	checkSessionToken    string

	checkConfigPath string
	checkColor      string
	checkTimeout    time.Duration

	// checkClients overrides the real AWS clients (set by tests).
	checkClients *checks.Clients
)

// errChecksFailed maps a reported failure to a non-zero exit without
// printing anything further; the summary block already said it all.
var errChecksFailed = errors.New("one or more checks failed")

var checkCmd = &cobra.Command{
	Use:           "check",
	Short:         "Run the AWS prerequisite checks",
	Long:          "Run the five read-only prerequisite checks and print a pass/fail report",
	RunE:          runCheck,
	SilenceErrors: true,
}

func init() {
	checkCmd.Flags().StringVar(&checkProfile, "profile", "", "AWS profile name (default credential chain if unset)")
	checkCmd.Flags().StringVar(&checkRegion, "region", awscfg.DefaultRegion, "AWS region")
	checkCmd.Flags().StringVar(&checkStackName, "stack-name", preflight.DefaultStackName, "CloudFormation stack name")
	checkCmd.Flags().StringVar(&checkBucketName, "bucket-name", preflight.DefaultBucketName, "S3 bucket name")
	checkCmd.Flags().StringVar(&checkRoleName, "role-name", preflight.DefaultRoleName, "IAM role name")
	checkCmd.Flags().StringVar(&checkGitHubOrg, "github-org", preflight.DefaultGitHubOrg, "GitHub organization/user")
	checkCmd.Flags().StringVar(&checkGitHubRepo, "github-repo", preflight.DefaultGitHubRepo, "GitHub repository name")
	checkCmd.Flags().StringVar(&checkAccessKeyID, "access-key-id", "", "Static AWS access key ID (overrides the credential chain)")
	checkCmd.Flags().StringVar(&checkSecretAccessKey, "secret-access-key", "", "Static AWS secret access key")
	checkCmd.Flags().StringVar(&checkSessionToken, "session-token", "", "Static AWS session token")
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to a YAML file with target defaults")
	checkCmd.Flags().StringVar(&checkColor, "color", "auto", "Color output: auto, always, never")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "Overall deadline for the run")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	opts.Output = cmd.OutOrStdout()
	opts.Clients = checkClients

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	summary, err := preflight.Run(ctx, opts)
	if err != nil {
		// Session failure; guidance is already printed.
		return err
	}
	if !summary.AllPassed() {
		return errChecksFailed
	}
	return nil
}

// resolveOptions merges flag values with the optional config file. Explicit
// flags win over the file; the file wins over built-in defaults.
func resolveOptions(cmd *cobra.Command) (preflight.Options, error) {
	opts := preflight.Options{
		Profile:         checkProfile,
		Region:          checkRegion,
		AccessKeyID:     checkAccessKeyID,
		SecretAccessKey: checkSecretAccessKey,
		SessionToken:    checkSessionToken,
		Color:           report.ColorEnabled(checkColor),
		Targets: preflight.Targets{
			StackName:  checkStackName,
			BucketName: checkBucketName,
			RoleName:   checkRoleName,
			GitHubOrg:  checkGitHubOrg,
			GitHubRepo: checkGitHubRepo,
		},
	}

	if checkConfigPath == "" {
		return opts, nil
	}
	file, err := configfile.Load(checkConfigPath)
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	apply := func(flag string, dst *string, fromFile string) {
		if !flags.Changed(flag) && fromFile != "" {
			*dst = fromFile
		}
	}
	apply("profile", &opts.Profile, file.Profile)
	apply("region", &opts.Region, file.Region)
	apply("stack-name", &opts.Targets.StackName, file.StackName)
	apply("bucket-name", &opts.Targets.BucketName, file.BucketName)
	apply("role-name", &opts.Targets.RoleName, file.RoleName)
	apply("github-org", &opts.Targets.GitHubOrg, file.GitHubOrg)
	apply("github-repo", &opts.Targets.GitHubRepo, file.GitHubRepo)

	return opts, nil
}
