// Package docusign is a client for the DocuSign eSignature REST API v2.1.
//
// Every resource lives under an account, so the configured base URL is
// the account URL built by AccountURL. Envelope listings page with the
// nextUri the server returns, which is walked with apiclient.CollectTokens.
package docusign

import (
	"context"
	"strings"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const (
	// ProductionBaseURI is the default production REST host.
	ProductionBaseURI = "https://www.docusign.net/restapi"

	// DemoBaseURI is the developer sandbox REST host.
	DemoBaseURI = "https://demo.docusign.net/restapi"

	vendorName = "docusign"
)

// EnvelopesClient defines operations on envelopes.
type EnvelopesClient interface {
	List(ctx context.Context, params *EnvelopeListParams) (*EnvelopesPage, error)
	ListAll(ctx context.Context, params *EnvelopeListParams) ([]Envelope, error)
	Get(ctx context.Context, envelopeID string) (*Envelope, error)
	Create(ctx context.Context, request *EnvelopeDefinition) (*EnvelopeSummary, error)
	Void(ctx context.Context, envelopeID, reason string) (*EnvelopeSummary, error)
}

// TemplatesClient defines operations on templates.
type TemplatesClient interface {
	List(ctx context.Context, params *TemplateListParams) (*TemplatesPage, error)
	Get(ctx context.Context, templateID string) (*Template, error)
}

// Client exposes the DocuSign resources of one account.
type Client struct {
	envelopes *envelopesClient
	templates *templatesClient
}

// AccountURL returns the account-scoped API root for baseURI, which is the
// base_uri reported by the OAuth userinfo endpoint with or without its
// "/restapi" suffix.
func AccountURL(baseURI, accountID string) string {
	base := strings.TrimSuffix(baseURI, "/")
	if !strings.HasSuffix(base, "/restapi") {
		base += "/restapi"
	}

	return apiclient.PathJoin(base+"/v2.1/accounts", accountID)
}

// AuthHeaders returns the headers that authenticate with an OAuth access
// token.
func AuthHeaders(accessToken string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + accessToken}
}

// New creates a DocuSign client. config.BaseURL must be an account URL;
// see AccountURL.
func New(config *apiclient.Config) (*Client, error) {
	if config == nil {
		return nil, apiclient.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, apiclient.ErrBaseURLRequired
	}

	transport := vendorhttp.NewClientFromConfig(config.Clone(), vendorName, DecodeError)
	logger := apiclient.LoggerOrNop(config.Logger)

	return &Client{
		envelopes: &envelopesClient{http: transport, logger: logger},
		templates: &templatesClient{http: transport},
	}, nil
}

// Envelopes returns the envelopes resource.
func (c *Client) Envelopes() EnvelopesClient {
	return c.envelopes
}

// Templates returns the templates resource.
func (c *Client) Templates() TemplatesClient {
	return c.templates
}
