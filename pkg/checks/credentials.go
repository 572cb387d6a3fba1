// pkg/checks/credentials.go
package checks

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/williambrady/preflight/pkg/types"
)

// CredentialsCheck verifies the resolved credentials against STS
// GetCallerIdentity. It gates the rest of the run: the runner aborts when
// this check fails.
type CredentialsCheck struct {
	client STSAPI
}

// NewCredentialsCheck creates the credentials check.
func NewCredentialsCheck(client STSAPI) *CredentialsCheck {
	return &CredentialsCheck{client: client}
}

// Name returns the check name.
func (c *CredentialsCheck) Name() string {
	return "AWS Credentials"
}

// Run calls GetCallerIdentity and classifies failures: an API error means
// the provider saw and rejected the credentials; anything else means no
// usable credential material was resolved client-side.
func (c *CredentialsCheck) Run(ctx context.Context) types.Result {
	identity, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return types.Fail("AWS credentials are invalid", err.Error())
		}
		return types.Fail("No AWS credentials found",
			"Configure credentials via environment variables, ~/.aws/credentials, or an IAM role")
	}

	return types.Pass("AWS credentials are valid",
		fmt.Sprintf("Account: %s", aws.ToString(identity.Account)),
		fmt.Sprintf("ARN: %s", aws.ToString(identity.Arn)),
	)
}
