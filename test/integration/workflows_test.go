//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
	"github.com/fivetwenty-io/vendorapi/pkg/stripe"
)

// TestStripeWorkflow_ListAllMatchesPages creates three customers in test
// mode and checks that a one-per-page walk returns each of them once.
func TestStripeWorkflow_ListAllMatchesPages(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfNoStripe(t)

	ctx := context.Background()

	client, err := stripe.New(&apiclient.Config{Headers: stripe.AuthHeaders(config.StripeKey)})
	require.NoError(t, err)

	email := GenerateTestName("workflow") + "@example.com"
	created := make(map[string]bool)

	for range 3 {
		customer, err := client.Customers().Create(ctx, &stripe.CustomerCreateRequest{Email: email})
		require.NoError(t, err)

		created[customer.ID] = true
	}

	defer func() {
		for id := range created {
			_, _ = client.Customers().Delete(ctx, id)
		}
	}()

	customers, err := client.Customers().ListAll(ctx, &stripe.CustomerListParams{Email: email, Limit: 1})
	require.NoError(t, err)
	require.Len(t, customers, len(created))

	seen := make(map[string]bool)
	for _, customer := range customers {
		assert.True(t, created[customer.ID], customer.ID)
		assert.False(t, seen[customer.ID], "duplicate %s", customer.ID)
		seen[customer.ID] = true
	}

	runner := NewCommandRunner(config, t)

	var listed []stripe.Customer
	require.NoError(t, runner.RunJSON(&listed, "stripe", "customers", "list", "--all", "--email", email, "--limit", "1"))
	assert.Len(t, listed, len(created))
}

// TestGitHubWorkflow_LinkPagination lists a large public organization with a
// small page size so the Link header has to be followed.
func TestGitHubWorkflow_LinkPagination(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfNoBinary(t)

	if os.Getenv("GITHUB_TOKEN") == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	runner := NewCommandRunner(config, t)

	var onePage []map[string]any
	require.NoError(t, runner.RunJSON(&onePage, "github", "repos", "list", "golang", "--per-page", "10"))
	require.Len(t, onePage, 10)

	var everything []map[string]any
	require.NoError(t, runner.RunJSON(&everything, "github", "repos", "list", "golang", "--per-page", "10", "--all"))
	assert.Greater(t, len(everything), len(onePage))
	assert.Equal(t, onePage[0]["full_name"], everything[0]["full_name"])
}

func TestCLIWorkflow_VersionAndConfig(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfNoBinary(t)

	runner := NewCommandRunner(config, t)

	stdout, stderr, err := runner.Run("version")
	require.NoError(t, err, stderr)
	AssertJSONOutput(t, stdout)

	_, stderr, err = runner.Run("config", "set", "shopify.shop", "example")
	require.NoError(t, err, stderr)

	var shown struct {
		Vendors map[string]struct {
			Shop string `json:"shop"`
		} `json:"vendors"`
	}

	require.NoError(t, runner.RunJSON(&shown, "config", "show"))
	assert.Equal(t, "example", shown.Vendors["shopify"].Shop)

	_, _, err = runner.Run("config", "set", "shopify.bogus", "x")
	require.Error(t, err)
}
