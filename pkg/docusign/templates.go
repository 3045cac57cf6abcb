package docusign

import (
	"context"
	"fmt"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// templatesClient implements TemplatesClient.
type templatesClient struct {
	http *vendorhttp.Client
}

// List returns one page of templates.
func (c *templatesClient) List(ctx context.Context, params *TemplateListParams) (*TemplatesPage, error) {
	query := apiclient.NewQueryParams()

	if params != nil {
		err := apiclient.ValidateRequest(params)
		if err != nil {
			return nil, err
		}

		query.
			Set("search_text", params.SearchText).
			SetList("folder_ids", params.FolderIDs).
			SetInt("start_position", params.StartPosition).
			SetInt("count", params.Count)
	}

	var page TemplatesPage

	err := c.http.GetJSON(ctx, "/templates", query.ToValues(), &page)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	return &page, nil
}

// Get retrieves a template definition.
func (c *templatesClient) Get(ctx context.Context, templateID string) (*Template, error) {
	var template Template

	err := c.http.GetJSON(ctx, apiclient.PathJoin("/templates", templateID), nil, &template)
	if err != nil {
		return nil, fmt.Errorf("getting template: %w", err)
	}

	return &template, nil
}
