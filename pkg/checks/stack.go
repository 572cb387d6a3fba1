// pkg/checks/stack.go
package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/williambrady/preflight/pkg/types"
)

// settledStackStatuses are the statuses a deployed stack is expected to be
// in. Anything else (in-progress, rollback, failed) fails the check.
var settledStackStatuses = []cftypes.StackStatus{
	cftypes.StackStatusCreateComplete,
	cftypes.StackStatusUpdateComplete,
}

// StackCheck verifies the CloudFormation stack exists and settled.
type StackCheck struct {
	client    CloudFormationAPI
	stackName string
}

// NewStackCheck creates the stack check for the named stack.
func NewStackCheck(client CloudFormationAPI, stackName string) *StackCheck {
	return &StackCheck{client: client, stackName: stackName}
}

// Name returns the check name.
func (c *StackCheck) Name() string {
	return "CloudFormation Stack"
}

// Run describes the stack and validates its status. On success the stack's
// exported outputs are rendered into the details, one "key: value" per line.
func (c *StackCheck) Run(ctx context.Context) types.Result {
	out, err := c.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(c.stackName),
	})
	if err != nil {
		// DescribeStacks reports a missing stack as a ValidationError with
		// a "does not exist" message rather than a distinct error type.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.ErrorMessage(), "does not exist") {
			return types.Fail(
				fmt.Sprintf("Stack '%s' does not exist", c.stackName),
				"Deploy the stack with:",
				"aws cloudformation deploy \\",
				"  --template-file cloudformation/github-oidc-terraform-state.yaml \\",
				fmt.Sprintf("  --stack-name %s \\", c.stackName),
				"  --capabilities CAPABILITY_NAMED_IAM",
			)
		}
		return types.Fail("Error checking stack", err.Error())
	}

	if len(out.Stacks) == 0 {
		return types.Fail(fmt.Sprintf("Stack '%s' does not exist", c.stackName))
	}
	stack := out.Stacks[0]

	if !stackSettled(stack.StackStatus) {
		return types.Fail(
			fmt.Sprintf("Stack '%s' is in unexpected state: %s", c.stackName, stack.StackStatus),
			fmt.Sprintf("Stack should be in %s or %s state",
				cftypes.StackStatusCreateComplete, cftypes.StackStatusUpdateComplete),
		)
	}

	var outputs []string
	for _, o := range stack.Outputs {
		outputs = append(outputs, fmt.Sprintf("%s: %s",
			aws.ToString(o.OutputKey), aws.ToString(o.OutputValue)))
	}
	return types.Pass(
		fmt.Sprintf("Stack '%s' is deployed (status: %s)", c.stackName, stack.StackStatus),
		outputs...,
	)
}

func stackSettled(status cftypes.StackStatus) bool {
	for _, s := range settledStackStatuses {
		if status == s {
			return true
		}
	}
	return false
}
