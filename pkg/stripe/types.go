package stripe

import (
	"net/url"
	"strconv"
	"time"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// List is Stripe's list envelope.
type List[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	URL     string `json:"url"`
}

// DeletedObject is returned by DELETE endpoints.
type DeletedObject struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Customer represents a Stripe customer.
type Customer struct {
	ID          string            `json:"id"                    yaml:"id"`
	Object      string            `json:"object"                yaml:"object"`
	Created     int64             `json:"created"               yaml:"created"`
	Email       string            `json:"email,omitempty"       yaml:"email,omitempty"`
	Name        string            `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Phone       string            `json:"phone,omitempty"       yaml:"phone,omitempty"`
	Currency    string            `json:"currency,omitempty"    yaml:"currency,omitempty"`
	Balance     int64             `json:"balance"               yaml:"balance"`
	Delinquent  bool              `json:"delinquent"            yaml:"delinquent"`
	Livemode    bool              `json:"livemode"              yaml:"livemode"`
	Metadata    map[string]string `json:"metadata,omitempty"    yaml:"metadata,omitempty"`
}

// CursorKey returns the customer ID.
func (c Customer) CursorKey() (string, bool) {
	return c.ID, c.ID != ""
}

// CustomerListParams filters GET /v1/customers.
type CustomerListParams struct {
	Limit         int
	Email         string
	CreatedAfter  time.Time
	CreatedBefore time.Time
	StartingAfter string
	EndingBefore  string
}

func (p *CustomerListParams) query() *apiclient.QueryParams {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query
	}

	return query.
		SetInt("limit", p.Limit).
		Set("email", p.Email).
		SetUnix("created[gte]", p.CreatedAfter).
		SetUnix("created[lte]", p.CreatedBefore).
		Set("starting_after", p.StartingAfter).
		Set("ending_before", p.EndingBefore)
}

// CustomerCreateRequest is the body of POST /v1/customers.
type CustomerCreateRequest struct {
	Email       string            `validate:"omitempty,email"`
	Name        string            `validate:"omitempty,max=256"`
	Description string            `validate:"omitempty,max=350"`
	Phone       string            `validate:"omitempty,max=20"`
	Metadata    map[string]string `validate:"omitempty,max=50"`
}

func (r *CustomerCreateRequest) form() url.Values {
	form := url.Values{}
	setForm(form, "email", r.Email)
	setForm(form, "name", r.Name)
	setForm(form, "description", r.Description)
	setForm(form, "phone", r.Phone)
	setMetadata(form, r.Metadata)

	return form
}

// CustomerUpdateRequest is the body of POST /v1/customers/{id}. Empty
// fields are left unchanged.
type CustomerUpdateRequest struct {
	Email       string `validate:"omitempty,email"`
	Name        string
	Description string
	Phone       string
	// Metadata keys with an empty value are removed.
	Metadata map[string]string
}

func (r *CustomerUpdateRequest) form() url.Values {
	form := url.Values{}
	setForm(form, "email", r.Email)
	setForm(form, "name", r.Name)
	setForm(form, "description", r.Description)
	setForm(form, "phone", r.Phone)

	for key, value := range r.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	return form
}

// Price is the price attached to a subscription item.
type Price struct {
	ID         string     `json:"id"                    yaml:"id"`
	Currency   string     `json:"currency"              yaml:"currency"`
	UnitAmount int64      `json:"unit_amount"           yaml:"unit_amount"`
	Product    string     `json:"product"               yaml:"product"`
	Recurring  *Recurring `json:"recurring,omitempty"   yaml:"recurring,omitempty"`
	Nickname   string     `json:"nickname,omitempty"    yaml:"nickname,omitempty"`
}

// Recurring describes a price's billing interval.
type Recurring struct {
	Interval      string `json:"interval"       yaml:"interval"`
	IntervalCount int64  `json:"interval_count" yaml:"interval_count"`
}

// SubscriptionItem is one price on a subscription.
type SubscriptionItem struct {
	ID       string `json:"id"       yaml:"id"`
	Price    Price  `json:"price"    yaml:"price"`
	Quantity int64  `json:"quantity" yaml:"quantity"`
}

// Subscription represents a Stripe subscription.
type Subscription struct {
	ID                 string                 `json:"id"                    yaml:"id"`
	Object             string                 `json:"object"                yaml:"object"`
	Customer           string                 `json:"customer"              yaml:"customer"`
	Status             string                 `json:"status"                yaml:"status"`
	Created            int64                  `json:"created"               yaml:"created"`
	CurrentPeriodStart int64                  `json:"current_period_start"  yaml:"current_period_start"`
	CurrentPeriodEnd   int64                  `json:"current_period_end"    yaml:"current_period_end"`
	CancelAtPeriodEnd  bool                   `json:"cancel_at_period_end"  yaml:"cancel_at_period_end"`
	CanceledAt         int64                  `json:"canceled_at,omitempty" yaml:"canceled_at,omitempty"`
	Items              List[SubscriptionItem] `json:"items"                 yaml:"items"`
	Metadata           map[string]string      `json:"metadata,omitempty"    yaml:"metadata,omitempty"`
}

// CursorKey returns the subscription ID.
func (s Subscription) CursorKey() (string, bool) {
	return s.ID, s.ID != ""
}

// SubscriptionListParams filters GET /v1/subscriptions.
type SubscriptionListParams struct {
	Limit         int
	Customer      string
	Price         string
	Status        string
	StartingAfter string
	EndingBefore  string
}

func (p *SubscriptionListParams) query() *apiclient.QueryParams {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query
	}

	return query.
		SetInt("limit", p.Limit).
		Set("customer", p.Customer).
		Set("price", p.Price).
		Set("status", p.Status).
		Set("starting_after", p.StartingAfter).
		Set("ending_before", p.EndingBefore)
}

// SubscriptionItemParams adds a price to a new subscription.
type SubscriptionItemParams struct {
	Price    string `validate:"required"`
	Quantity int64  `validate:"omitempty,min=1"`
}

// SubscriptionCreateRequest is the body of POST /v1/subscriptions.
type SubscriptionCreateRequest struct {
	Customer          string                   `validate:"required"`
	Items             []SubscriptionItemParams `validate:"required,min=1,dive"`
	TrialPeriodDays   int64                    `validate:"omitempty,min=1,max=730"`
	CancelAtPeriodEnd bool
	Metadata          map[string]string
}

func (r *SubscriptionCreateRequest) form() url.Values {
	form := url.Values{}
	form.Set("customer", r.Customer)

	for i, item := range r.Items {
		prefix := "items[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[price]", item.Price)

		if item.Quantity > 0 {
			form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
		}
	}

	if r.TrialPeriodDays > 0 {
		form.Set("trial_period_days", strconv.FormatInt(r.TrialPeriodDays, 10))
	}

	if r.CancelAtPeriodEnd {
		form.Set("cancel_at_period_end", "true")
	}

	setMetadata(form, r.Metadata)

	return form
}

// SubscriptionUpdateRequest is the body of POST /v1/subscriptions/{id}.
type SubscriptionUpdateRequest struct {
	CancelAtPeriodEnd *bool
	ProrationBehavior string `validate:"omitempty,oneof=create_prorations none always_invoice"`
	Metadata          map[string]string
}

func (r *SubscriptionUpdateRequest) form() url.Values {
	form := url.Values{}

	if r.CancelAtPeriodEnd != nil {
		form.Set("cancel_at_period_end", strconv.FormatBool(*r.CancelAtPeriodEnd))
	}

	setForm(form, "proration_behavior", r.ProrationBehavior)

	for key, value := range r.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	return form
}

// SubscriptionCancelParams are the options of DELETE /v1/subscriptions/{id}.
type SubscriptionCancelParams struct {
	InvoiceNow bool
	Prorate    bool
}

func setForm(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}

func setMetadata(form url.Values, metadata map[string]string) {
	for key, value := range metadata {
		if value != "" {
			form.Set("metadata["+key+"]", value)
		}
	}
}
