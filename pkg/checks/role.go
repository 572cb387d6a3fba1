// pkg/checks/role.go
package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/williambrady/preflight/pkg/types"
)

// RoleCheck verifies the deployment role exists and that its trust policy
// grants the GitHub OIDC issuer for the configured org/repo.
type RoleCheck struct {
	client   IAMAPI
	roleName string
	org      string
	repo     string
}

// NewRoleCheck creates the role check.
func NewRoleCheck(client IAMAPI, roleName, githubOrg, githubRepo string) *RoleCheck {
	return &RoleCheck{client: client, roleName: roleName, org: githubOrg, repo: githubRepo}
}

// Name returns the check name.
func (c *RoleCheck) Name() string {
	return "IAM Role"
}

// Run fetches the role and inspects its trust policy. Three-way outcome:
// no OIDC federation at all, federation scoped to the wrong repo, or a
// correct grant for org/repo.
func (c *RoleCheck) Run(ctx context.Context) types.Result {
	out, err := c.client.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(c.roleName),
	})
	if err != nil {
		var notFound *iamtypes.NoSuchEntityException
		if errors.As(err, &notFound) {
			return types.Fail(
				fmt.Sprintf("Role '%s' does not exist", c.roleName),
				"Deploy the CloudFormation stack to create the role",
			)
		}
		return types.Fail("Error checking role", err.Error())
	}

	policy, err := parseTrustPolicy(aws.ToString(out.Role.AssumeRolePolicyDocument))
	if err != nil {
		return types.Fail("Error checking role", fmt.Sprintf("parsing trust policy: %v", err))
	}

	hasOIDC, correctRepo := c.inspectTrust(policy)

	switch {
	case hasOIDC && correctRepo:
		return types.Pass(
			fmt.Sprintf("Role '%s' is properly configured", c.roleName),
			fmt.Sprintf("Trust policy allows: %s/%s", c.org, c.repo),
		)
	case hasOIDC:
		return types.Fail(
			fmt.Sprintf("Role '%s' exists but trust policy may be incorrect", c.roleName),
			fmt.Sprintf("Expected repo: %s/%s", c.org, c.repo),
		)
	default:
		return types.Fail(
			fmt.Sprintf("Role '%s' does not have OIDC trust policy", c.roleName),
			fmt.Sprintf("Role should trust %s", GitHubOIDCIssuer),
		)
	}
}

// inspectTrust scans the policy statements for a GitHub OIDC federated
// principal, and within such statements for a StringLike subject condition
// prefixed repo:{org}/{repo}:.
func (c *RoleCheck) inspectTrust(policy *trustPolicy) (hasOIDC, correctRepo bool) {
	wantSub := fmt.Sprintf("repo:%s/%s:", c.org, c.repo)
	subKey := GitHubOIDCIssuer + ":sub"

	for _, stmt := range policy.Statement {
		federated := false
		for _, principal := range stmt.Principal.Federated {
			if strings.Contains(principal, GitHubOIDCIssuer) {
				federated = true
				break
			}
		}
		if !federated {
			continue
		}
		hasOIDC = true

		for _, sub := range stmt.Condition["StringLike"][subKey] {
			if strings.Contains(sub, wantSub) {
				correctRepo = true
			}
		}
	}
	return hasOIDC, correctRepo
}

// trustPolicy models just the parts of an assume-role policy document the
// check inspects. Policy JSON allows single values wherever it allows
// arrays, so the leaf types normalize both shapes.
type trustPolicy struct {
	Statement statementList `json:"Statement"`
}

type trustStatement struct {
	Principal struct {
		Federated stringOrSlice `json:"Federated"`
	} `json:"Principal"`
	Condition map[string]map[string]stringOrSlice `json:"Condition"`
}

type statementList []trustStatement

func (s *statementList) UnmarshalJSON(data []byte) error {
	var list []trustStatement
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single trustStatement
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = statementList{single}
	return nil
}

type stringOrSlice []string

func (s *stringOrSlice) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = stringOrSlice{single}
	return nil
}

// parseTrustPolicy decodes an AssumeRolePolicyDocument as returned by
// GetRole, which is URL-encoded JSON.
func parseTrustPolicy(document string) (*trustPolicy, error) {
	decoded, err := url.QueryUnescape(document)
	if err != nil {
		// Some callers hand us plain JSON already.
		decoded = document
	}
	var policy trustPolicy
	if err := json.Unmarshal([]byte(decoded), &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}
