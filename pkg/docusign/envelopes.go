package docusign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const envelopesPath = "/envelopes"

// envelopesClient implements EnvelopesClient.
type envelopesClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

func (p *EnvelopeListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		SetTime("from_date", p.FromDate).
		SetTime("to_date", p.ToDate).
		SetList("status", p.Status).
		SetList("envelope_ids", p.EnvelopeIDs).
		SetList("folder_ids", p.FolderIDs).
		Set("search_text", p.SearchText).
		SetInt("start_position", p.StartPosition).
		SetInt("count", p.Count).
		Set("order", p.Order).
		Set("order_by", p.OrderBy), nil
}

// List returns one page of envelopes.
func (c *envelopesClient) List(ctx context.Context, params *EnvelopeListParams) (*EnvelopesPage, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return c.getPage(ctx, apiclient.WithQuery(envelopesPath, query.ToValues()))
}

// ListAll follows nextUri from the first page until the server stops
// returning one. params.StartPosition only affects the first page.
func (c *envelopesClient) ListAll(ctx context.Context, params *EnvelopeListParams) ([]Envelope, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	values := query.ToValues()
	if values.Get("count") == "" {
		values.Set("count", fmt.Sprint(constants.DocusignDefaultCount))
	}

	firstURL := apiclient.WithQuery(envelopesPath, values)

	fetch := func(ctx context.Context, token string) (*apiclient.TokenPage[Envelope], error) {
		pageURL := firstURL
		if token != "" {
			pageURL = token
		}

		page, err := c.getPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		return &apiclient.TokenPage[Envelope]{Items: page.Envelopes, NextToken: page.NextURI}, nil
	}

	envelopes, err := apiclient.CollectTokens(ctx, fetch, c.logger)
	if err != nil {
		return nil, fmt.Errorf("listing all envelopes: %w", err)
	}

	return envelopes, nil
}

func (c *envelopesClient) getPage(ctx context.Context, pageURL string) (*EnvelopesPage, error) {
	resp, err := c.http.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing envelopes: %w", err)
	}

	var page EnvelopesPage

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing envelopes response: %w", err)
	}

	return &page, nil
}

// Get retrieves an envelope.
func (c *envelopesClient) Get(ctx context.Context, envelopeID string) (*Envelope, error) {
	resp, err := c.http.Get(ctx, apiclient.PathJoin(envelopesPath, envelopeID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting envelope: %w", err)
	}

	var envelope Envelope

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing envelope response: %w", err)
	}

	return &envelope, nil
}

// Create creates a draft envelope, or sends it when Status is "sent".
func (c *envelopesClient) Create(ctx context.Context, request *EnvelopeDefinition) (*EnvelopeSummary, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, envelopesPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating envelope: %w", err)
	}

	return parseSummary(resp)
}

// Void voids an in-process envelope. DocuSign requires a reason.
func (c *envelopesClient) Void(ctx context.Context, envelopeID, reason string) (*EnvelopeSummary, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: void reason is required", apiclient.ErrInvalidRequest)
	}

	body := map[string]string{"status": "voided", "voidedReason": reason}

	resp, err := c.http.Put(ctx, apiclient.PathJoin(envelopesPath, envelopeID), body)
	if err != nil {
		return nil, fmt.Errorf("voiding envelope: %w", err)
	}

	summary, err := parseSummary(resp)
	if err != nil {
		return nil, err
	}

	if summary.Status == "" {
		summary.Status = "voided"
	}

	return summary, nil
}

func parseSummary(resp *vendorhttp.Response) (*EnvelopeSummary, error) {
	var summary EnvelopeSummary

	err := json.Unmarshal(resp.Body, &summary)
	if err != nil {
		return nil, fmt.Errorf("parsing envelope summary: %w", err)
	}

	return &summary, nil
}
