package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

var errMissingEnvelope = errors.New("response has no resource envelope")

// customersClient implements CustomersClient.
type customersClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

func (p *CustomerListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		SetInt("limit", p.Limit).
		SetInt64("since_id", p.SinceID).
		SetList("ids", p.IDs).
		SetTime("created_at_min", p.CreatedAtMin).
		SetTime("updated_at_min", p.UpdatedAtMin), nil
}

// List returns one page of customers.
func (c *customersClient) List(ctx context.Context, params *CustomerListParams) ([]Customer, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return c.getPage(ctx, apiclient.WithQuery("/customers.json", query.ToValues()))
}

// ListAll walks customers in ID order with since_id. A full page means
// there may be more; the walk ends on the first short page.
func (c *customersClient) ListAll(ctx context.Context, params *CustomerListParams) ([]Customer, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	values := query.ToValues()
	values.Del("since_id")

	limit := constants.ShopifyDefaultLimit
	if params != nil && params.Limit > 0 {
		limit = params.Limit
	}

	values.Set("limit", strconv.Itoa(limit))

	fetch := func(ctx context.Context, pageURL string) (*apiclient.Page[Customer], error) {
		customers, err := c.getPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		return &apiclient.Page[Customer]{Items: customers, HasMore: len(customers) >= limit}, nil
	}

	paginator := apiclient.NewCursorPaginator(fetch, constants.CursorSinceID, c.logger)

	customers, err := paginator.FetchAll(ctx, apiclient.WithQuery("/customers.json", values))
	if err != nil {
		return nil, fmt.Errorf("listing all customers: %w", err)
	}

	return customers, nil
}

func (c *customersClient) getPage(ctx context.Context, pageURL string) ([]Customer, error) {
	resp, err := c.http.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	var envelope struct {
		Customers []Customer `json:"customers"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing customers response: %w", err)
	}

	return envelope.Customers, nil
}

// Get retrieves a customer by ID.
func (c *customersClient) Get(ctx context.Context, id int64) (*Customer, error) {
	resp, err := c.http.Get(ctx, "/customers/"+strconv.FormatInt(id, 10)+".json", nil)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}

	var envelope struct {
		Customer *Customer `json:"customer"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing customer response: %w", err)
	}

	if envelope.Customer == nil {
		return nil, fmt.Errorf("parsing customer response: %w", errMissingEnvelope)
	}

	return envelope.Customer, nil
}
