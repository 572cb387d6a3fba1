// pkg/awscfg/awscfg.go
package awscfg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultRegion is used when no region is given on the command line or in a
// config file.
const DefaultRegion = "us-east-1"

// Options select how the AWS client configuration is resolved.
type Options struct {
	// Profile is an optional shared-config profile name. Empty means the
	// default credential chain.
	Profile string

	// Region to scope all API calls to. Empty falls back to DefaultRegion.
	Region string

	// Static credential triple. When AccessKeyID or SecretAccessKey is set,
	// the triple overrides the credential chain entirely, so an explicit
	// keypair can be verified before handing it to CI.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// SessionError reports a failure to resolve client configuration before any
// check has run. It is fatal: callers print guidance and exit.
type SessionError struct {
	Profile string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Profile != "" {
		return fmt.Sprintf("loading AWS config for profile %q: %v", e.Profile, e.Err)
	}
	return fmt.Sprintf("loading AWS config: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Load resolves an aws.Config from the default chain, a named profile, or a
// static credential triple. All failures are wrapped in *SessionError.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" || opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken,
			),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, &SessionError{Profile: opts.Profile, Err: err}
	}
	return cfg, nil
}
