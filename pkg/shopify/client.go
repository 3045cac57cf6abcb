// Package shopify is a client for the Shopify Admin REST API.
//
// Products page with opaque page_info tokens handed out in the Link
// header. Customers are walked with since_id, taken from the last customer
// of each page.
package shopify

import (
	"context"
	"strings"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// DefaultAPIVersion is the Admin API version used by StoreURL.
const DefaultAPIVersion = "2024-07"

const vendorName = "shopify"

// ProductsClient defines operations on products.
type ProductsClient interface {
	List(ctx context.Context, params *ProductListParams) ([]Product, error)
	ListAll(ctx context.Context, params *ProductListParams) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, request *ProductRequest) (*Product, error)
	Update(ctx context.Context, id int64, request *ProductRequest) (*Product, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, params *ProductListParams) (int, error)
}

// CustomersClient defines operations on customers.
type CustomersClient interface {
	List(ctx context.Context, params *CustomerListParams) ([]Customer, error)
	ListAll(ctx context.Context, params *CustomerListParams) ([]Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
}

// Client exposes the Shopify resources of one store.
type Client struct {
	products  *productsClient
	customers *customersClient
}

// StoreURL returns the Admin API base URL for a shop. shop is either the
// bare shop name or its myshopify.com domain; an empty version selects
// DefaultAPIVersion.
func StoreURL(shop, version string) string {
	if version == "" {
		version = DefaultAPIVersion
	}

	domain := strings.TrimSuffix(strings.TrimPrefix(shop, "https://"), "/")
	if !strings.Contains(domain, ".") {
		domain += ".myshopify.com"
	}

	return "https://" + domain + "/admin/api/" + version
}

// AuthHeaders returns the headers that authenticate with an Admin API
// access token.
func AuthHeaders(accessToken string) map[string]string {
	return map[string]string{"X-Shopify-Access-Token": accessToken}
}

// New creates a Shopify client. Shopify has no shared endpoint, so
// config.BaseURL is required; see StoreURL.
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
		products:  &productsClient{http: transport},
		customers: &customersClient{http: transport, logger: logger},
	}, nil
}

// Products returns the products resource.
func (c *Client) Products() ProductsClient {
	return c.products
}

// Customers returns the customers resource.
func (c *Client) Customers() CustomersClient {
	return c.customers
}
