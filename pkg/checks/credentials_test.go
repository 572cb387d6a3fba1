// pkg/checks/credentials_test.go
package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

// mockSTS implements STSAPI for testing.
type mockSTS struct {
	identity *sts.GetCallerIdentityOutput
	err      error
	calls    int
}

func (m *mockSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.calls++
	return m.identity, m.err
}

func TestCredentialsCheck_Name(t *testing.T) {
	c := NewCredentialsCheck(&mockSTS{})
	assert.Equal(t, "AWS Credentials", c.Name())
}

func TestCredentialsCheck_Valid(t *testing.T) {
	mock := &mockSTS{
		identity: &sts.GetCallerIdentityOutput{
			Account: aws.String("123456789012"),
			Arn:     aws.String("arn:aws:iam::123456789012:user/testuser"),
			UserId:  aws.String("AIDAEXAMPLE"),
		},
	}

	result := NewCredentialsCheck(mock).Run(context.Background())
	assert.True(t, result.Passed)
	assert.Equal(t, "AWS credentials are valid", result.Message)
	assert.Contains(t, result.Details, "Account: 123456789012")
	assert.Contains(t, result.Details, "ARN: arn:aws:iam::123456789012:user/testuser")
}

func TestCredentialsCheck_Invalid(t *testing.T) {
	// A rejection is an API error: the provider saw the credentials.
	mock := &mockSTS{
		err: &smithy.GenericAPIError{
			Code:    "InvalidClientTokenId",
			Message: "The security token included in the request is invalid",
		},
	}

	result := NewCredentialsCheck(mock).Run(context.Background())
	assert.False(t, result.Passed)
	assert.Equal(t, "AWS credentials are invalid", result.Message)
	assert.Contains(t, result.Details, "InvalidClientTokenId")
}

func TestCredentialsCheck_NoCredentials(t *testing.T) {
	// Credential chain failures surface before any request is made, so
	// there is no API error in the chain.
	mock := &mockSTS{
		err: errors.New("failed to retrieve credentials: no EC2 IMDS role found"),
	}

	result := NewCredentialsCheck(mock).Run(context.Background())
	assert.False(t, result.Passed)
	assert.Equal(t, "No AWS credentials found", result.Message)
	assert.Contains(t, result.Details, "~/.aws/credentials")
}
