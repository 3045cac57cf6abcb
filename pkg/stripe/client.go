// Package stripe is a client for the Stripe REST API.
//
// Requests are form-encoded and list endpoints page with a
// "starting_after" cursor taken from the last object returned, so every
// ListAll method is a thin wrapper around apiclient.CursorPaginator.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// DefaultBaseURL is the public Stripe API endpoint.
const DefaultBaseURL = "https://api.stripe.com"

const vendorName = "stripe"

// Client exposes the Stripe resources.
type Client struct {
	customers     *customersClient
	subscriptions *subscriptionsClient
}

// CustomersClient defines operations on customers.
type CustomersClient interface {
	List(ctx context.Context, params *CustomerListParams) (*List[Customer], error)
	ListAll(ctx context.Context, params *CustomerListParams) ([]Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, request *CustomerCreateRequest) (*Customer, error)
	Update(ctx context.Context, id string, request *CustomerUpdateRequest) (*Customer, error)
	Delete(ctx context.Context, id string) (*DeletedObject, error)
}

// SubscriptionsClient defines operations on subscriptions.
type SubscriptionsClient interface {
	List(ctx context.Context, params *SubscriptionListParams) (*List[Subscription], error)
	ListAll(ctx context.Context, params *SubscriptionListParams) ([]Subscription, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	Create(ctx context.Context, request *SubscriptionCreateRequest) (*Subscription, error)
	Update(ctx context.Context, id string, request *SubscriptionUpdateRequest) (*Subscription, error)
	Cancel(ctx context.Context, id string, params *SubscriptionCancelParams) (*Subscription, error)
}

// AuthHeaders returns the headers that authenticate with a secret key.
func AuthHeaders(apiKey string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

// New creates a Stripe client. POST requests receive an Idempotency-Key
// unless the caller's interceptors already set one.
func New(config *apiclient.Config) (*Client, error) {
	if config == nil {
		return nil, apiclient.ErrConfigRequired
	}

	cfg := config.WithDefaultBaseURL(DefaultBaseURL)

	chain := apiclient.NewInterceptorChain()
	if config.Interceptors != nil {
		chain.AddRequestInterceptor(config.Interceptors.ExecuteRequestInterceptors)
		chain.AddResponseInterceptor(config.Interceptors.ExecuteResponseInterceptors)
	}

	chain.AddRequestInterceptor(apiclient.IdempotencyKeyInterceptor("Idempotency-Key"))
	cfg.Interceptors = chain

	transport := vendorhttp.NewClientFromConfig(cfg, vendorName, DecodeError)
	logger := apiclient.LoggerOrNop(cfg.Logger)

	return &Client{
		customers:     &customersClient{http: transport, logger: logger},
		subscriptions: &subscriptionsClient{http: transport, logger: logger},
	}, nil
}

// Customers returns the customers resource.
func (c *Client) Customers() CustomersClient {
	return c.customers
}

// Subscriptions returns the subscriptions resource.
func (c *Client) Subscriptions() SubscriptionsClient {
	return c.subscriptions
}

// fetchList returns a page fetcher for any Stripe list endpoint.
func fetchList[T any](transport *vendorhttp.Client, resource string) apiclient.PageFetcher[T] {
	return func(ctx context.Context, pageURL string) (*apiclient.Page[T], error) {
		list, err := getList[T](ctx, transport, pageURL, resource)
		if err != nil {
			return nil, err
		}

		return &apiclient.Page[T]{Items: list.Data, HasMore: list.HasMore}, nil
	}
}

func getList[T any](ctx context.Context, transport *vendorhttp.Client, pageURL, resource string) (*List[T], error) {
	resp, err := transport.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resource, err)
	}

	var list List[T]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", resource, err)
	}

	return &list, nil
}

// listAll walks every page of path with the given first-page query.
func listAll[T apiclient.CursorKeyer](ctx context.Context, transport *vendorhttp.Client, logger apiclient.Logger, path string, query *apiclient.QueryParams, resource string) ([]T, error) {
	values := query.ToValues()
	values.Del("starting_after")
	values.Del("ending_before")

	if values.Get("limit") == "" {
		values.Set("limit", fmt.Sprint(constants.StripeDefaultLimit))
	}

	paginator := apiclient.NewCursorPaginator(fetchList[T](transport, resource), constants.CursorStartingAfter, logger)

	items, err := paginator.FetchAll(ctx, apiclient.WithQuery(path, values))
	if err != nil {
		return nil, fmt.Errorf("listing all %s: %w", resource, err)
	}

	return items, nil
}
