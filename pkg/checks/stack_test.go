// pkg/checks/stack_test.go
package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCloudFormation implements CloudFormationAPI for testing.
type mockCloudFormation struct {
	output *cloudformation.DescribeStacksOutput
	err    error
}

func (m *mockCloudFormation) DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	return m.output, m.err
}

func stackOutput(status cftypes.StackStatus, outputs ...cftypes.Output) *cloudformation.DescribeStacksOutput {
	return &cloudformation.DescribeStacksOutput{
		Stacks: []cftypes.Stack{{
			StackName:   aws.String("github-terraform-state"),
			StackStatus: status,
			Outputs:     outputs,
		}},
	}
}

func TestStackCheck_CreateComplete(t *testing.T) {
	mock := &mockCloudFormation{
		output: stackOutput(cftypes.StackStatusCreateComplete,
			cftypes.Output{OutputKey: aws.String("BucketName"), OutputValue: aws.String("my-state-bucket")},
			cftypes.Output{OutputKey: aws.String("RoleArn"), OutputValue: aws.String("arn:aws:iam::123456789012:role/deploy")},
		),
	}

	result := NewStackCheck(mock, "github-terraform-state").Run(context.Background())
	require.True(t, result.Passed)
	assert.Contains(t, result.Message, "github-terraform-state")
	assert.Contains(t, result.Message, "CREATE_COMPLETE")
	assert.Contains(t, result.Details, "BucketName: my-state-bucket")
	assert.Contains(t, result.Details, "RoleArn: arn:aws:iam::123456789012:role/deploy")
}

func TestStackCheck_UpdateComplete(t *testing.T) {
	mock := &mockCloudFormation{output: stackOutput(cftypes.StackStatusUpdateComplete)}

	result := NewStackCheck(mock, "github-terraform-state").Run(context.Background())
	assert.True(t, result.Passed)
	assert.Empty(t, result.Details)
}

func TestStackCheck_RollbackComplete(t *testing.T) {
	mock := &mockCloudFormation{output: stackOutput(cftypes.StackStatusRollbackComplete)}

	result := NewStackCheck(mock, "github-terraform-state").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Message, "ROLLBACK_COMPLETE")
	assert.Contains(t, result.Details, "CREATE_COMPLETE")
	assert.Contains(t, result.Details, "UPDATE_COMPLETE")
}

func TestStackCheck_NotFound(t *testing.T) {
	mock := &mockCloudFormation{
		err: &smithy.GenericAPIError{
			Code:    "ValidationError",
			Message: "Stack with id github-terraform-state does not exist",
		},
	}

	result := NewStackCheck(mock, "github-terraform-state").Run(context.Background())
	require.False(t, result.Passed)
	assert.Contains(t, result.Message, "does not exist")
	assert.Contains(t, result.Details, "aws cloudformation deploy")
	assert.Contains(t, result.Details, "--stack-name github-terraform-state")
}

func TestStackCheck_OtherError(t *testing.T) {
	mock := &mockCloudFormation{err: errors.New("dial tcp: connection refused")}

	result := NewStackCheck(mock, "github-terraform-state").Run(context.Background())
	require.False(t, result.Passed)
	assert.Equal(t, "Error checking stack", result.Message)
	assert.Contains(t, result.Details, "connection refused")
}
