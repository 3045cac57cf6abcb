package shopify

import (
	"strconv"
	"time"
)

// Product is a Shopify product.
type Product struct {
	ID          int64     `json:"id,omitempty"           yaml:"id"`
	Title       string    `json:"title"                  yaml:"title"`
	BodyHTML    string    `json:"body_html,omitempty"    yaml:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"       yaml:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty" yaml:"product_type,omitempty"`
	Handle      string    `json:"handle,omitempty"       yaml:"handle,omitempty"`
	Status      string    `json:"status,omitempty"       yaml:"status,omitempty"`
	Tags        string    `json:"tags,omitempty"         yaml:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"     yaml:"variants,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"    yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"    yaml:"updated_at,omitempty"`
}

// Variant is one purchasable variant of a product.
type Variant struct {
	ID                int64  `json:"id,omitempty"       yaml:"id"`
	Title             string `json:"title,omitempty"    yaml:"title,omitempty"`
	Price             string `json:"price,omitempty"    yaml:"price,omitempty"`
	SKU               string `json:"sku,omitempty"      yaml:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity" yaml:"inventory_quantity"`
}

// ProductListParams filters GET /products.json.
type ProductListParams struct {
	Limit       int `validate:"omitempty,min=1,max=250"`
	IDs         []string
	Title       string
	Vendor      string
	ProductType string
	Status      string `validate:"omitempty,oneof=active archived draft"`
	Fields      []string
}

// ProductRequest is the body of product create and update calls. Zero
// fields are omitted, so an update only changes what is set.
type ProductRequest struct {
	Title       string    `json:"title,omitempty"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Status      string    `json:"status,omitempty"       validate:"omitempty,oneof=active archived draft"`
	Tags        string    `json:"tags,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Customer is a Shopify customer.
type Customer struct {
	ID          int64     `json:"id"                     yaml:"id"`
	Email       string    `json:"email,omitempty"        yaml:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"   yaml:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"    yaml:"last_name,omitempty"`
	Phone       string    `json:"phone,omitempty"        yaml:"phone,omitempty"`
	State       string    `json:"state,omitempty"        yaml:"state,omitempty"`
	OrdersCount int       `json:"orders_count"           yaml:"orders_count"`
	TotalSpent  string    `json:"total_spent,omitempty"  yaml:"total_spent,omitempty"`
	Tags        string    `json:"tags,omitempty"         yaml:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"             yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"             yaml:"updated_at"`
}

// CursorKey returns the customer ID, which GET /customers.json takes as
// since_id.
func (c Customer) CursorKey() (string, bool) {
	if c.ID <= 0 {
		return "", false
	}

	return strconv.FormatInt(c.ID, 10), true
}

// CustomerListParams filters GET /customers.json.
type CustomerListParams struct {
	Limit int `validate:"omitempty,min=1,max=250"`
	// SinceID restricts results to IDs greater than this one. Ignored by ListAll.
	SinceID      int64
	IDs          []string
	CreatedAtMin time.Time
	UpdatedAtMin time.Time
}
