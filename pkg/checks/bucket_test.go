// pkg/checks/bucket_test.go
package checks

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 implements S3API for testing. Each probe is independently
// configurable.
type mockS3 struct {
	headErr error

	versioning    *s3.GetBucketVersioningOutput
	versioningErr error

	encryptionErr error

	publicAccess    *s3.GetPublicAccessBlockOutput
	publicAccessErr error
}

func (m *mockS3) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockS3) GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	if m.versioningErr != nil {
		return nil, m.versioningErr
	}
	if m.versioning != nil {
		return m.versioning, nil
	}
	return &s3.GetBucketVersioningOutput{}, nil
}

func (m *mockS3) GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error) {
	if m.encryptionErr != nil {
		return nil, m.encryptionErr
	}
	return &s3.GetBucketEncryptionOutput{}, nil
}

func (m *mockS3) GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error) {
	if m.publicAccessErr != nil {
		return nil, m.publicAccessErr
	}
	if m.publicAccess != nil {
		return m.publicAccess, nil
	}
	return &s3.GetPublicAccessBlockOutput{}, nil
}

func publicAccessOutput(blockACLs, blockPolicy, ignoreACLs, restrict bool) *s3.GetPublicAccessBlockOutput {
	return &s3.GetPublicAccessBlockOutput{
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(blockACLs),
			BlockPublicPolicy:     aws.Bool(blockPolicy),
			IgnorePublicAcls:      aws.Bool(ignoreACLs),
			RestrictPublicBuckets: aws.Bool(restrict),
		},
	}
}

func wellConfiguredBucket() *mockS3 {
	return &mockS3{
		versioning: &s3.GetBucketVersioningOutput{
			Status: s3types.BucketVersioningStatusEnabled,
		},
		publicAccess: publicAccessOutput(true, true, true, true),
	}
}

func httpResponseError(status int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{
				Response: &http.Response{StatusCode: status},
			},
			Err: errors.New("api error"),
		},
	}
}

func TestBucketCheck_Name(t *testing.T) {
	c := NewBucketCheck(&mockS3{}, "test-bucket")
	assert.Equal(t, "S3 Bucket", c.Name())
}

func TestBucketCheck_ProperlyConfigured(t *testing.T) {
	result := NewBucketCheck(wellConfiguredBucket(), "state-bucket").Run(context.Background())
	require.True(t, result.Passed)
	assert.Contains(t, result.Message, "state-bucket")
	assert.Contains(t, result.Details, "Versioning: Enabled")
	assert.Contains(t, result.Details, "Encryption: Enabled")
	assert.Contains(t, result.Details, "Public Access Blocked: true")
}

func TestBucketCheck_VersioningNeverConfigured(t *testing.T) {
	mock := wellConfiguredBucket()
	mock.versioning = &s3.GetBucketVersioningOutput{} // no status at all

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Details, "Versioning: Disabled")
	// The other sub-statuses are still reported.
	assert.Contains(t, result.Details, "Encryption: Enabled")
	assert.Contains(t, result.Details, "Public Access Blocked: true")
}

func TestBucketCheck_VersioningSuspended(t *testing.T) {
	mock := wellConfiguredBucket()
	mock.versioning = &s3.GetBucketVersioningOutput{
		Status: s3types.BucketVersioningStatusSuspended,
	}

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Details, "Versioning: Suspended")
}

func TestBucketCheck_EncryptionErrorAssumedDisabled(t *testing.T) {
	mock := wellConfiguredBucket()
	mock.encryptionErr = errors.New("ServerSideEncryptionConfigurationNotFoundError")

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Details, "Encryption: Disabled")
}

func TestBucketCheck_PublicAccessErrorAssumedNotBlocked(t *testing.T) {
	mock := wellConfiguredBucket()
	mock.publicAccessErr = errors.New("NoSuchPublicAccessBlockConfiguration")

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Details, "Public Access Blocked: false")
}

func TestBucketCheck_SinglePublicAccessFlagUnset(t *testing.T) {
	for _, flags := range [][4]bool{
		{false, true, true, true},
		{true, false, true, true},
		{true, true, false, true},
		{true, true, true, false},
	} {
		mock := wellConfiguredBucket()
		mock.publicAccess = publicAccessOutput(flags[0], flags[1], flags[2], flags[3])

		result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
		assert.False(t, result.Passed, "flags %v should fail the check", flags)
		assert.Contains(t, result.Details, "Public Access Blocked: false")
	}
}

func TestBucketCheck_NotFound(t *testing.T) {
	mock := &mockS3{headErr: &s3types.NotFound{Message: aws.String("Not Found")}}

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Message, "does not exist")
	assert.Contains(t, result.Details, "Deploy the CloudFormation stack")
}

func TestBucketCheck_NotFoundByStatusCode(t *testing.T) {
	mock := &mockS3{headErr: httpResponseError(http.StatusNotFound)}

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Message, "does not exist")
}

func TestBucketCheck_AccessDenied(t *testing.T) {
	mock := &mockS3{headErr: httpResponseError(http.StatusForbidden)}

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Message, "Access denied")
	assert.Contains(t, result.Details, "s3:HeadBucket")
}

func TestBucketCheck_OtherHeadError(t *testing.T) {
	mock := &mockS3{headErr: errors.New("dial tcp: i/o timeout")}

	result := NewBucketCheck(mock, "state-bucket").Run(context.Background())
	require.False(t, result.Passed)
	assert.Equal(t, "Error checking bucket", result.Message)
	assert.Contains(t, result.Details, "i/o timeout")
}

func TestAssumeDisabledOnError(t *testing.T) {
	assert.Equal(t, "Disabled", assumeDisabledOnError(errors.New("any error")))
	assert.Equal(t, "Enabled", assumeDisabledOnError(nil))
}
