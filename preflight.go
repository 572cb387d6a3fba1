// Package preflight validates the AWS prerequisites of the
// portfolio-github-management Terraform pipeline before it runs.
//
// Five read-only checks run in fixed order: AWS credentials, the
// CloudFormation bootstrap stack, the Terraform state bucket, the GitHub
// Actions deployment role, and the account's GitHub OIDC provider. A
// credentials failure aborts the run; any later failure is recorded and the
// remaining checks still run.
//
// # Basic Usage
//
//	summary, err := preflight.Run(ctx, preflight.Options{
//	    Profile: "deploy",
//	    Output:  os.Stdout,
//	})
//	if err != nil {
//	    log.Fatal(err) // session construction failed
//	}
//	if !summary.AllPassed() {
//	    os.Exit(1)
//	}
package preflight

import (
	"context"
	"io"
	"os"

	"github.com/williambrady/preflight/pkg/awscfg"
	"github.com/williambrady/preflight/pkg/checks"
	"github.com/williambrady/preflight/pkg/report"
	"github.com/williambrady/preflight/pkg/types"
)

// Re-export commonly used types so embedders can import just
// "github.com/williambrady/preflight" without subpackages.
type (
	// Result is the outcome of a single check.
	Result = types.Result

	// NamedResult pairs a check name with its result.
	NamedResult = types.NamedResult

	// Summary is the outcome of a full run.
	Summary = checks.Summary

	// Targets names the resources the checks validate.
	Targets = checks.Targets

	// Check is a single read-only validation.
	Check = checks.Check
)

// Default resource names for the portfolio-github-management pipeline.
const (
	DefaultStackName  = "github-terraform-state"
	DefaultBucketName = "williambrady-terraform-state-918573727633"
	DefaultRoleName   = "github-actions-portfolio-github-management"
	DefaultGitHubOrg  = "williambrady"
	DefaultGitHubRepo = "portfolio-github-management"
)

// Options configure a preflight run. The zero value validates the default
// targets with the default credential chain, printing to stdout.
type Options struct {
	// Profile is an optional shared-config profile name.
	Profile string

	// Region for all API calls. Empty means awscfg.DefaultRegion.
	Region string

	// Static credential triple, overriding the credential chain when set.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Targets to validate. Empty fields fall back to the package defaults.
	Targets Targets

	// Output for the report. Nil means os.Stdout.
	Output io.Writer

	// Color enables ANSI color in the report.
	Color bool

	// Clients overrides the AWS service clients, bypassing session
	// construction. Used by tests and embedders with pre-built clients.
	Clients *checks.Clients
}

func (o *Options) normalize() {
	if o.Region == "" {
		o.Region = awscfg.DefaultRegion
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.Targets.StackName == "" {
		o.Targets.StackName = DefaultStackName
	}
	if o.Targets.BucketName == "" {
		o.Targets.BucketName = DefaultBucketName
	}
	if o.Targets.RoleName == "" {
		o.Targets.RoleName = DefaultRoleName
	}
	if o.Targets.GitHubOrg == "" {
		o.Targets.GitHubOrg = DefaultGitHubOrg
	}
	if o.Targets.GitHubRepo == "" {
		o.Targets.GitHubRepo = DefaultGitHubRepo
	}
}

// Run executes the full preflight: prints the title and resolved settings,
// builds the AWS session, runs the checks with progress output, and prints
// the summary block.
//
// The returned error is non-nil only for session construction failures
// (guidance is already printed). All check failures are reported through the
// summary: callers map !summary.AllPassed() to a non-zero exit.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	opts.normalize()

	printer := report.NewPrinter(opts.Output, opts.Color)
	printer.Header("AWS Prerequisites Validation")
	printer.Settings(opts.Profile, opts.Region, opts.Targets)

	clients := opts.Clients
	if clients == nil {
		cfg, err := awscfg.Load(ctx, awscfg.Options{
			Profile:         opts.Profile,
			Region:          opts.Region,
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			SessionToken:    opts.SessionToken,
		})
		if err != nil {
			printer.SessionFailure(err, opts.Profile)
			return nil, err
		}
		c := checks.NewClients(cfg)
		clients = &c
	}

	runner := checks.NewDefaultRunner(printer, *clients, opts.Targets)
	summary := runner.Run(ctx)

	if summary.Aborted {
		printer.Aborted()
		return summary, nil
	}
	printer.Summary(summary)
	return summary, nil
}
