package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// productsClient implements ProductsClient.
type productsClient struct {
	http *vendorhttp.Client
}

type productEnvelope struct {
	Product *Product `json:"product"`
}

type productListEnvelope struct {
	Products []Product `json:"products"`
}

type productRequestEnvelope struct {
	Product *ProductRequest `json:"product"`
}

func (p *ProductListParams) query() (*apiclient.QueryParams, error) {
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
		SetList("ids", p.IDs).
		Set("title", p.Title).
		Set("vendor", p.Vendor).
		Set("product_type", p.ProductType).
		Set("status", p.Status).
		SetList("fields", p.Fields), nil
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10) + ".json"
}

// List returns the first page of products.
func (c *productsClient) List(ctx context.Context, params *ProductListParams) ([]Product, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, "/products.json", query.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return parseProducts(resp)
}

// ListAll follows rel="next" page_info links until the last page. Shopify
// only accepts limit and fields alongside page_info, so the filters apply
// through the first request.
func (c *productsClient) ListAll(ctx context.Context, params *ProductListParams) ([]Product, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	values := query.ToValues()
	if values.Get("limit") == "" {
		values.Set("limit", strconv.Itoa(constants.ShopifyDefaultLimit))
	}

	products := make([]Product, 0)

	err = c.http.GetAllLinked(ctx, "/products.json", values, func(resp *vendorhttp.Response) error {
		page, err := parseProducts(resp)
		if err != nil {
			return err
		}

		products = append(products, page...)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing all products: %w", err)
	}

	return products, nil
}

// Get retrieves a product by ID.
func (c *productsClient) Get(ctx context.Context, id int64) (*Product, error) {
	resp, err := c.http.Get(ctx, productPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}

	return parseProduct(resp)
}

// Create creates a product.
func (c *productsClient) Create(ctx context.Context, request *ProductRequest) (*Product, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	if request.Title == "" {
		return nil, fmt.Errorf("%w: Title failed %q", apiclient.ErrInvalidRequest, "required")
	}

	resp, err := c.http.Post(ctx, "/products.json", productRequestEnvelope{Product: request})
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	return parseProduct(resp)
}

// Update changes the fields set in request.
func (c *productsClient) Update(ctx context.Context, id int64, request *ProductRequest) (*Product, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Put(ctx, productPath(id), productRequestEnvelope{Product: request})
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return parseProduct(resp)
}

// Delete deletes a product.
func (c *productsClient) Delete(ctx context.Context, id int64) error {
	_, err := c.http.Delete(ctx, productPath(id))
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return nil
}

// Count returns the number of products matching params. Limit and Fields
// are ignored.
func (c *productsClient) Count(ctx context.Context, params *ProductListParams) (int, error) {
	query, err := params.query()
	if err != nil {
		return 0, err
	}

	values := query.ToValues()
	values.Del("limit")
	values.Del("fields")

	var count struct {
		Count int `json:"count"`
	}

	err = c.http.GetJSON(ctx, "/products/count.json", values, &count)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return count.Count, nil
}

func parseProduct(resp *vendorhttp.Response) (*Product, error) {
	var envelope productEnvelope

	err := json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing product response: %w", err)
	}

	if envelope.Product == nil {
		return nil, fmt.Errorf("parsing product response: %w", errMissingEnvelope)
	}

	return envelope.Product, nil
}

func parseProducts(resp *vendorhttp.Response) ([]Product, error) {
	var envelope productListEnvelope

	err := json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing products response: %w", err)
	}

	return envelope.Products, nil
}
