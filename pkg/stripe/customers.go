package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const customersPath = "/v1/customers"

// customersClient implements CustomersClient against /v1/customers.
type customersClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

// List returns one page of customers.
func (c *customersClient) List(ctx context.Context, params *CustomerListParams) (*List[Customer], error) {
	return getList[Customer](ctx, c.http, apiclient.WithQuery(customersPath, params.query().ToValues()), "customers")
}

// ListAll follows starting_after from the first page until has_more is
// false. StartingAfter and EndingBefore in params are ignored.
func (c *customersClient) ListAll(ctx context.Context, params *CustomerListParams) ([]Customer, error) {
	return listAll[Customer](ctx, c.http, c.logger, customersPath, params.query(), "customers")
}

// Get retrieves a customer by ID.
func (c *customersClient) Get(ctx context.Context, id string) (*Customer, error) {
	resp, err := c.http.Get(ctx, apiclient.PathJoin(customersPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return parseCustomer(resp)
}

// Create creates a customer.
func (c *customersClient) Create(ctx context.Context, request *CustomerCreateRequest) (*Customer, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.PostForm(ctx, customersPath, request.form())
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return parseCustomer(resp)
}

// Update changes the fields set in request.
func (c *customersClient) Update(ctx context.Context, id string, request *CustomerUpdateRequest) (*Customer, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.PostForm(ctx, apiclient.PathJoin(customersPath, id), request.form())
	if err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	return parseCustomer(resp)
}

// Delete permanently deletes a customer.
func (c *customersClient) Delete(ctx context.Context, id string) (*DeletedObject, error) {
	resp, err := c.http.Delete(ctx, apiclient.PathJoin(customersPath, id))
	if err != nil {
		return nil, fmt.Errorf("deleting customer: %w", err)
	}

	var deleted DeletedObject

	err = json.Unmarshal(resp.Body, &deleted)
	if err != nil {
		return nil, fmt.Errorf("parsing customer delete response: %w", err)
	}

	return &deleted, nil
}

func parseCustomer(resp *vendorhttp.Response) (*Customer, error) {
	var customer Customer

	err := json.Unmarshal(resp.Body, &customer)
	if err != nil {
		return nil, fmt.Errorf("parsing customer response: %w", err)
	}

	return &customer, nil
}
