// pkg/checks/bucket.go
package checks

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/williambrady/preflight/pkg/types"
)

// BucketCheck verifies the Terraform state bucket exists and is configured
// with versioning, encryption, and a full public access block.
type BucketCheck struct {
	client     S3API
	bucketName string
}

// NewBucketCheck creates the bucket check for the named bucket.
func NewBucketCheck(client S3API, bucketName string) *BucketCheck {
	return &BucketCheck{client: client, bucketName: bucketName}
}

// Name returns the check name.
func (c *BucketCheck) Name() string {
	return "S3 Bucket"
}

// Run probes bucket existence, then versioning, encryption, and public
// access block. All three sub-statuses are always reported in the details
// so a partially configured bucket is diagnosable in one run.
func (c *BucketCheck) Run(ctx context.Context) types.Result {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	})
	if err != nil {
		switch headBucketStatus(err) {
		case http.StatusNotFound:
			return types.Fail(
				fmt.Sprintf("Bucket '%s' does not exist", c.bucketName),
				"Deploy the CloudFormation stack to create the bucket",
			)
		case http.StatusForbidden:
			return types.Fail(
				fmt.Sprintf("Access denied to bucket '%s'", c.bucketName),
				"Check IAM permissions for s3:HeadBucket",
			)
		}
		return types.Fail("Error checking bucket", err.Error())
	}

	versioning := c.versioningStatus(ctx)
	encryption := c.encryptionStatus(ctx)
	publicBlocked := c.publicAccessBlocked(ctx)

	details := []string{
		fmt.Sprintf("Versioning: %s", versioning),
		fmt.Sprintf("Encryption: %s", encryption),
		fmt.Sprintf("Public Access Blocked: %t", publicBlocked),
	}

	if versioning == statusEnabled && encryption == statusEnabled && publicBlocked {
		return types.Pass(
			fmt.Sprintf("Bucket '%s' is properly configured", c.bucketName),
			details...,
		)
	}
	return types.Fail(
		fmt.Sprintf("Bucket '%s' exists but may not be properly configured", c.bucketName),
		details...,
	)
}

const (
	statusEnabled  = "Enabled"
	statusDisabled = "Disabled"
)

func (c *BucketCheck) versioningStatus(ctx context.Context) string {
	out, err := c.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(c.bucketName),
	})
	if err != nil || out.Status == "" {
		// Buckets that never had versioning configured return no status.
		return statusDisabled
	}
	return string(out.Status)
}

func (c *BucketCheck) encryptionStatus(ctx context.Context) string {
	_, err := c.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
		Bucket: aws.String(c.bucketName),
	})
	return assumeDisabledOnError(err)
}

// publicAccessBlocked requires all four block flags to be set. Retrieval
// errors count as "not blocked" under the same conservative policy as
// encryption.
func (c *BucketCheck) publicAccessBlocked(ctx context.Context) bool {
	out, err := c.client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{
		Bucket: aws.String(c.bucketName),
	})
	if err != nil || out.PublicAccessBlockConfiguration == nil {
		return false
	}
	cfg := out.PublicAccessBlockConfiguration
	return aws.ToBool(cfg.BlockPublicAcls) &&
		aws.ToBool(cfg.BlockPublicPolicy) &&
		aws.ToBool(cfg.IgnorePublicAcls) &&
		aws.ToBool(cfg.RestrictPublicBuckets)
}

// assumeDisabledOnError is the explicit policy for optional sub-probes:
// any retrieval error is reported as Disabled rather than failing the whole
// check. This conflates "confirmed absent" with "could not retrieve"; the
// conservative default keeps the check read-only and single-shot.
func assumeDisabledOnError(err error) string {
	if err != nil {
		return statusDisabled
	}
	return statusEnabled
}

// headBucketStatus extracts the HTTP status from a HeadBucket error, which
// carries no response body to model richer error types from. Returns 0 when
// no HTTP response is attached.
func headBucketStatus(err error) int {
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}
