package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const subscriptionsPath = "/v1/subscriptions"

// subscriptionsClient implements SubscriptionsClient against /v1/subscriptions.
type subscriptionsClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

// List returns one page of subscriptions.
func (c *subscriptionsClient) List(ctx context.Context, params *SubscriptionListParams) (*List[Subscription], error) {
	return getList[Subscription](ctx, c.http, apiclient.WithQuery(subscriptionsPath, params.query().ToValues()), "subscriptions")
}

// ListAll returns every subscription matching params.
func (c *subscriptionsClient) ListAll(ctx context.Context, params *SubscriptionListParams) ([]Subscription, error) {
	return listAll[Subscription](ctx, c.http, c.logger, subscriptionsPath, params.query(), "subscriptions")
}

// Get retrieves a subscription by ID.
func (c *subscriptionsClient) Get(ctx context.Context, id string) (*Subscription, error) {
	resp, err := c.http.Get(ctx, apiclient.PathJoin(subscriptionsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	return parseSubscription(resp)
}

// Create starts a subscription for a customer.
func (c *subscriptionsClient) Create(ctx context.Context, request *SubscriptionCreateRequest) (*Subscription, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.PostForm(ctx, subscriptionsPath, request.form())
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	return parseSubscription(resp)
}

// Update modifies a subscription.
func (c *subscriptionsClient) Update(ctx context.Context, id string, request *SubscriptionUpdateRequest) (*Subscription, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.PostForm(ctx, apiclient.PathJoin(subscriptionsPath, id), request.form())
	if err != nil {
		return nil, fmt.Errorf("updating subscription: %w", err)
	}

	return parseSubscription(resp)
}

// Cancel cancels a subscription immediately. Use Update with
// CancelAtPeriodEnd to cancel at the end of the billing period instead.
func (c *subscriptionsClient) Cancel(ctx context.Context, id string, params *SubscriptionCancelParams) (*Subscription, error) {
	query := apiclient.NewQueryParams()
	if params != nil {
		query.SetBool("invoice_now", params.InvoiceNow).SetBool("prorate", params.Prorate)
	}

	resp, err := c.http.Do(ctx, &vendorhttp.Request{
		Method: http.MethodDelete,
		Path:   apiclient.PathJoin(subscriptionsPath, id),
		Query:  query.ToValues(),
	})
	if err != nil {
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	return parseSubscription(resp)
}

func parseSubscription(resp *vendorhttp.Response) (*Subscription, error) {
	var subscription Subscription

	err := json.Unmarshal(resp.Body, &subscription)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}

	return &subscription, nil
}
