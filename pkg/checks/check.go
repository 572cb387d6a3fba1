// pkg/checks/check.go
package checks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/williambrady/preflight/pkg/types"
)

// GitHubOIDCIssuer is the hostname of the GitHub Actions workload identity
// issuer. The role trust policy and the account's OIDC provider are both
// matched against it.
const GitHubOIDCIssuer = "token.actions.githubusercontent.com"

// Check is a single read-only preflight validation. Implementations fold
// every provider error into the returned result; nothing is retried and
// nothing propagates to the process boundary.
type Check interface {
	// Name returns a human-readable name for this check.
	Name() string

	// Run performs the check against the provider.
	Run(ctx context.Context) types.Result
}

// STSAPI is the subset of the STS client used by the credentials check
// (allows mocking in tests).
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CloudFormationAPI is the subset of the CloudFormation client used by the
// stack check.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// S3API is the subset of the S3 client used by the bucket check.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
}

// IAMAPI is the subset of the IAM client used by the role and OIDC provider
// checks.
type IAMAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	ListOpenIDConnectProviders(ctx context.Context, params *iam.ListOpenIDConnectProvidersInput, optFns ...func(*iam.Options)) (*iam.ListOpenIDConnectProvidersOutput, error)
	GetOpenIDConnectProvider(ctx context.Context, params *iam.GetOpenIDConnectProviderInput, optFns ...func(*iam.Options)) (*iam.GetOpenIDConnectProviderOutput, error)
}

// Clients bundles the per-service API clients the checks run against.
type Clients struct {
	STS            STSAPI
	CloudFormation CloudFormationAPI
	S3             S3API
	IAM            IAMAPI
}

// NewClients constructs real service clients from a resolved aws.Config.
func NewClients(cfg aws.Config) Clients {
	return Clients{
		STS:            sts.NewFromConfig(cfg),
		CloudFormation: cloudformation.NewFromConfig(cfg),
		S3:             s3.NewFromConfig(cfg),
		IAM:            iam.NewFromConfig(cfg),
	}
}
