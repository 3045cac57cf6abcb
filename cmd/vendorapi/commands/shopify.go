package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vendorapi/pkg/shopify"
)

// NewShopifyCommand creates the shopify command group.
func NewShopifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopify",
		Short: "Work with the Shopify Admin API",
		Long:  "Work with the Shopify Admin REST API. Set shopify.shop or shopify.base_url first.",
	}

	products := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage Shopify products",
	}

	products.AddCommand(newShopifyProductsListCommand())
	products.AddCommand(newShopifyProductsGetCommand())
	cmd.AddCommand(products)

	return cmd
}

func newShopifyProductsListCommand() *cobra.Command {
	var (
		allPages  bool
		withCount bool
		limit     int
		status    string
		vendor    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newShopifyClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &shopify.ProductListParams{Limit: limit, Status: status, Vendor: vendor}

			var products []shopify.Product
			if allPages {
				products, err = client.Products().ListAll(cmd.Context(), params)
			} else {
				products, err = client.Products().List(cmd.Context(), params)
			}

			if err != nil {
				return err
			}

			err = render(cmd, products, func(w io.Writer) error {
				return renderShopifyProductsTable(w, products)
			})
			if err != nil || !withCount {
				return err
			}

			total, err := client.Products().Count(cmd.Context(), params)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Showing %d of %d products\n", len(products), total)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().BoolVar(&withCount, "count", false, "report the total number of matching products on stderr")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (1-250)")
	cmd.Flags().StringVar(&status, "status", "", "active, archived or draft")
	cmd.Flags().StringVar(&vendor, "vendor", "", "filter by product vendor")

	return cmd
}

func newShopifyProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID",
		Short: "Get a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidID, args[0])
			}

			client, release, err := newShopifyClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			product, err := client.Products().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render(cmd, product, func(w io.Writer) error {
				return renderProperties(w, [][2]string{
					{"ID", strconv.FormatInt(product.ID, 10)},
					{"Title", product.Title},
					{"Handle", product.Handle},
					{"Status", product.Status},
					{"Vendor", product.Vendor},
					{"Type", product.ProductType},
					{"Tags", product.Tags},
					{"Variants", strconv.Itoa(len(product.Variants))},
				})
			})
		},
	}
}

func renderShopifyProductsTable(w io.Writer, products []shopify.Product) error {
	rows := make([][]string, 0, len(products))
	for _, product := range products {
		rows = append(rows, []string{
			strconv.FormatInt(product.ID, 10),
			truncate(product.Title, 50),
			product.Status,
			product.Vendor,
			strconv.Itoa(len(product.Variants)),
		})
	}

	return renderRows(w, "products", []string{"ID", "Title", "Status", "Vendor", "Variants"}, rows)
}
