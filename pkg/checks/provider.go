// pkg/checks/provider.go
package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/williambrady/preflight/pkg/types"
)

// ProviderCheck verifies the account has an OIDC identity provider
// registered for the GitHub Actions issuer.
type ProviderCheck struct {
	client IAMAPI
}

// NewProviderCheck creates the OIDC provider check.
func NewProviderCheck(client IAMAPI) *ProviderCheck {
	return &ProviderCheck{client: client}
}

// Name returns the check name.
func (c *ProviderCheck) Name() string {
	return "OIDC Provider"
}

// Run lists the account's OIDC providers, matches on the issuer hostname in
// the ARN, and reports the provider's audience list on success.
func (c *ProviderCheck) Run(ctx context.Context) types.Result {
	out, err := c.client.ListOpenIDConnectProviders(ctx, &iam.ListOpenIDConnectProvidersInput{})
	if err != nil {
		return types.Fail("Error checking OIDC provider", err.Error())
	}

	var providerARN string
	for _, p := range out.OpenIDConnectProviderList {
		if strings.Contains(aws.ToString(p.Arn), GitHubOIDCIssuer) {
			providerARN = aws.ToString(p.Arn)
			break
		}
	}
	if providerARN == "" {
		return types.Fail("GitHub OIDC provider not found",
			"Deploy the CloudFormation stack to create the OIDC provider")
	}

	details, err := c.client.GetOpenIDConnectProvider(ctx, &iam.GetOpenIDConnectProviderInput{
		OpenIDConnectProviderArn: aws.String(providerARN),
	})
	if err != nil {
		return types.Fail("Error checking OIDC provider", err.Error())
	}

	return types.Pass("GitHub OIDC provider is configured",
		fmt.Sprintf("ARN: %s", providerARN),
		fmt.Sprintf("Audiences: %s", strings.Join(details.ClientIDList, ", ")),
	)
}
