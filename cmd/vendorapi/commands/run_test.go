package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/github"
	"github.com/fivetwenty-io/vendorapi/pkg/mailchimp"
	"github.com/fivetwenty-io/vendorapi/pkg/stripe"
)

// The tests in this file share viper's global state and do not run in parallel.

func useViper(t *testing.T, settings map[string]any) {
	t.Helper()

	viper.Reset()
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))

	for key, value := range settings {
		viper.Set(key, value)
	}

	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeJSON(t *testing.T, writer http.ResponseWriter, body any) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(writer).Encode(body))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestStripeCustomersListAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/customers", request.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", request.Header.Get("Authorization"))
		assert.Equal(t, "on", request.Header.Get("X-Trace"))

		switch request.URL.Query().Get("starting_after") {
		case "":
			writeJSON(t, writer, map[string]any{
				"object":   "list",
				"data":     []map[string]any{{"id": "cus_1"}, {"id": "cus_2"}},
				"has_more": true,
			})
		case "cus_2":
			writeJSON(t, writer, map[string]any{
				"object":   "list",
				"data":     []map[string]any{{"id": "cus_3"}},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected cursor %q", request.URL.Query().Get("starting_after"))
		}
	}))
	defer server.Close()

	useViper(t, map[string]any{
		"output":          constants.FormatJSON,
		"stripe.base_url": server.URL,
		"stripe.token":    "sk_test_123",
		"stripe.headers":  map[string]string{"X-Trace": "on"},
	})

	out, err := execute(t, NewStripeCommand(), "customers", "list", "--all")
	require.NoError(t, err)

	var customers []stripe.Customer
	require.NoError(t, json.Unmarshal([]byte(out), &customers))
	require.Len(t, customers, 3)
	assert.Equal(t, "cus_1", customers[0].ID)
	assert.Equal(t, "cus_3", customers[2].ID)
}

func TestStripeCustomersGetMany(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		id := filepath.Base(request.URL.Path)
		if id == "cus_missing" {
			writer.WriteHeader(http.StatusNotFound)
			writeJSON(t, writer, map[string]any{
				"error": map[string]any{"type": "invalid_request_error", "message": "No such customer"},
			})

			return
		}

		writeJSON(t, writer, map[string]any{"id": id, "email": id + "@example.com"})
	}))
	defer server.Close()

	useViper(t, map[string]any{
		"output":          constants.FormatJSON,
		"stripe.base_url": server.URL,
	})

	out, err := execute(t, NewStripeCommand(), "customers", "get", "cus_1", "cus_2")
	require.NoError(t, err)

	var customers []stripe.Customer
	require.NoError(t, json.Unmarshal([]byte(out), &customers))
	require.Len(t, customers, 2)
	assert.Equal(t, "cus_1", customers[0].ID)
	assert.Equal(t, "cus_2@example.com", customers[1].Email)

	_, err = execute(t, NewStripeCommand(), "customers", "get", "cus_1", "cus_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such customer")
}

func TestGitHubReposListAllTable(t *testing.T) {
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", request.URL.Path)

		if request.URL.Query().Get("page") == "2" {
			writeJSON(t, writer, []map[string]any{{"full_name": "acme/two", "private": true}})

			return
		}

		writer.Header().Set("Link", `<`+server.URL+`/orgs/acme/repos?page=2>; rel="next"`)
		writeJSON(t, writer, []map[string]any{{"full_name": "acme/one", "language": "Go"}})
	}))
	defer server.Close()

	useViper(t, map[string]any{
		"output":          constants.FormatTable,
		"github.base_url": server.URL,
	})

	out, err := execute(t, NewGitHubCommand(), "repos", "list", "acme", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/one")
	assert.Contains(t, out, "acme/two")
	assert.Contains(t, out, "private")
}

func TestGitHubIssuesListRejectsBadRepository(t *testing.T) {
	useViper(t, nil)

	_, err := execute(t, NewGitHubCommand(), "issues", "list", "not-a-repo")
	require.ErrorIs(t, err, ErrInvalidRepository)
}

func TestMailchimpMembersListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/lists/abc/members", request.URL.Path)
		assert.Equal(t, "subscribed", request.URL.Query().Get("status"))
		writeJSON(t, writer, mailchimp.MembersPage{ListID: "abc"})
	}))
	defer server.Close()

	useViper(t, map[string]any{
		"output":             constants.FormatTable,
		"mailchimp.base_url": server.URL,
		"mailchimp.token":    "key-us6",
	})

	out, err := execute(t, NewMailchimpCommand(), "members", "list", "abc", "--status", "subscribed")
	require.NoError(t, err)
	assert.Equal(t, "No members found\n", out)
}

func TestMailchimpRejectsKeyWithoutDatacenter(t *testing.T) {
	useViper(t, map[string]any{"mailchimp.token": "nodatacenter"})

	_, err := execute(t, NewMailchimpCommand(), "lists", "list")
	require.ErrorIs(t, err, mailchimp.ErrInvalidAPIKey)
}

func TestShopifyProductsGetRejectsNonNumericID(t *testing.T) {
	useViper(t, nil)

	_, err := execute(t, NewShopifyCommand(), "products", "get", "abc")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestDocusignEnvelopesListRejectsBadDate(t *testing.T) {
	useViper(t, nil)

	_, err := execute(t, NewDocusignCommand(), "envelopes", "list", "--from-date", "01/02/2026")
	require.ErrorIs(t, err, ErrInvalidDate)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestConfigSetAndShow(t *testing.T) {
	useViper(t, map[string]any{"output": constants.FormatJSON})

	_, err := execute(t, NewConfigCommand(), "set", "stripe.token", "sk_live_abcd1234")
	require.NoError(t, err)

	_, err = execute(t, NewConfigCommand(), "set", "github.headers.X-Trace", "on")
	require.NoError(t, err)

	_, err = execute(t, NewConfigCommand(), "set", "docusign.account_id", "acct-1")
	require.NoError(t, err)

	_, err = execute(t, NewConfigCommand(), "set", "stripe.account_id", "acct-1")
	require.ErrorIs(t, err, ErrUnknownConfigKey)

	_, err = execute(t, NewConfigCommand(), "set", "output", "xml")
	require.ErrorIs(t, err, ErrUnknownOutputFormat)

	data, err := os.ReadFile(viper.ConfigFileUsed())
	require.NoError(t, err)

	var stored Config
	require.NoError(t, yaml.Unmarshal(data, &stored))
	require.Contains(t, stored.Vendors, "stripe")
	assert.Equal(t, "sk_live_abcd1234", stored.Vendors["stripe"].Token)
	assert.Equal(t, "on", stored.Vendors["github"].Headers["x-trace"])
	assert.Equal(t, "acct-1", stored.Vendors["docusign"].AccountID)

	out, err := execute(t, NewConfigCommand(), "show")
	require.NoError(t, err)

	var shown Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "****1234", shown.Vendors["stripe"].Token)
}

func TestOutputFormat(t *testing.T) {
	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	useViper(t, nil)

	isTerminal = func() bool { return true }
	format, err := outputFormat()
	require.NoError(t, err)
	assert.Equal(t, constants.FormatTable, format)

	isTerminal = func() bool { return false }
	format, err = outputFormat()
	require.NoError(t, err)
	assert.Equal(t, constants.FormatJSON, format)

	viper.Set("output", "YAML")
	format, err = outputFormat()
	require.NoError(t, err)
	assert.Equal(t, constants.FormatYAML, format)

	viper.Set("output", "csv")
	_, err = outputFormat()
	require.ErrorIs(t, err, ErrUnknownOutputFormat)
}

func TestBuildAPIConfig(t *testing.T) {
	useViper(t, nil)

	config := &Config{
		RetryMax: 2,
		Timeout:  "5s",
		Vendors: map[string]*VendorConfig{
			vendorGitHub: {Token: "ghp_x", Headers: map[string]string{"X-Extra": "1"}},
		},
	}

	apiConfig, release, err := buildAPIConfig(t.Context(), config, vendorGitHub)
	require.NoError(t, err)
	t.Cleanup(release)

	assert.Equal(t, github.AuthHeaders("ghp_x")["Authorization"], apiConfig.Headers["Authorization"])
	assert.Equal(t, "1", apiConfig.Headers["X-Extra"])
	assert.Equal(t, 2, apiConfig.RetryMax)
	assert.Equal(t, constants.DefaultRetryWaitMin, apiConfig.RetryWaitMin)
	assert.Equal(t, "5s", apiConfig.Timeout.String())
	assert.Nil(t, apiConfig.Cache)
	assert.NotNil(t, apiConfig.Interceptors)

	config.Timeout = "soon"
	_, _, err = buildAPIConfig(t.Context(), config, vendorGitHub)
	require.Error(t, err)
}
