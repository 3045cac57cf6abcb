package mailchimp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// listsClient implements ListsClient.
type listsClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

func (p *ListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		SetInt("count", p.Count).
		SetInt("offset", p.Offset).
		SetList("fields", p.Fields).
		SetList("exclude_fields", p.ExcludeFields).
		Set("email", p.EmailAddress).
		SetTime("since_date_created", p.SinceDateCreated).
		Set("sort_field", p.SortField).
		Set("sort_dir", p.SortDir), nil
}

// List returns one page of audiences.
func (c *listsClient) List(ctx context.Context, params *ListParams) (*ListsPage, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	var page ListsPage

	err = c.http.GetJSON(ctx, "/lists", query.ToValues(), &page)
	if err != nil {
		return nil, wrap("listing lists", err)
	}

	return &page, nil
}

// ListAll pages through every audience by offset.
func (c *listsClient) ListAll(ctx context.Context, params *ListParams) ([]List, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	count := constants.MailchimpDefaultCount
	if params != nil && params.Count > 0 {
		count = params.Count
	}

	fetch := func(ctx context.Context, offset, count int) (*apiclient.OffsetPage[List], error) {
		values := query.ToValues()
		values.Set("offset", strconv.Itoa(offset))
		values.Set("count", strconv.Itoa(count))

		var page ListsPage

		err := c.http.GetJSON(ctx, "/lists", values, &page)
		if err != nil {
			return nil, wrap("listing lists", err)
		}

		return &apiclient.OffsetPage[List]{Items: page.Lists, Total: page.TotalItems}, nil
	}

	lists, err := apiclient.CollectOffset(ctx, count, fetch, c.logger)
	if err != nil {
		return nil, wrap("listing all lists", err)
	}

	return lists, nil
}

// Get retrieves an audience.
func (c *listsClient) Get(ctx context.Context, listID string) (*List, error) {
	resp, err := c.http.Get(ctx, apiclient.PathJoin("/lists", listID), nil)
	if err != nil {
		return nil, wrap("getting list", err)
	}

	return parseList(resp)
}

// Create creates an audience.
func (c *listsClient) Create(ctx context.Context, request *ListRequest) (*List, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, "/lists", request)
	if err != nil {
		return nil, wrap("creating list", err)
	}

	return parseList(resp)
}

// Update replaces an audience's settings.
func (c *listsClient) Update(ctx context.Context, listID string, request *ListRequest) (*List, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Patch(ctx, apiclient.PathJoin("/lists", listID), request)
	if err != nil {
		return nil, wrap("updating list", err)
	}

	return parseList(resp)
}

// Delete deletes an audience and all of its members.
func (c *listsClient) Delete(ctx context.Context, listID string) error {
	_, err := c.http.Delete(ctx, apiclient.PathJoin("/lists", listID))
	if err != nil {
		return wrap("deleting list", err)
	}

	return nil
}

func parseList(resp *vendorhttp.Response) (*List, error) {
	var list List

	err := json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, wrap("parsing list response", err)
	}

	return &list, nil
}
