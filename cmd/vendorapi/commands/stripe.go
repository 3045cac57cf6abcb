package commands

import (
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/vendorapi/pkg/stripe"
)

const maxConcurrentGets = 4

// NewStripeCommand creates the stripe command group.
func NewStripeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stripe",
		Short: "Work with the Stripe API",
	}

	cmd.AddCommand(newStripeCustomersCommand())
	cmd.AddCommand(newStripeSubscriptionsCommand())

	return cmd
}

func newStripeCustomersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "cus"},
		Short:   "Manage Stripe customers",
	}

	cmd.AddCommand(newStripeCustomersListCommand())
	cmd.AddCommand(newStripeCustomersGetCommand())

	return cmd
}

func newStripeCustomersListCommand() *cobra.Command {
	var (
		allPages bool
		limit    int
		email    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Long:  "List Stripe customers. With --all every page is fetched by following the last customer ID.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newStripeClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &stripe.CustomerListParams{Limit: limit, Email: email}

			var customers []stripe.Customer

			if allPages {
				customers, err = client.Customers().ListAll(cmd.Context(), params)
			} else {
				var page *stripe.List[stripe.Customer]

				page, err = client.Customers().List(cmd.Context(), params)
				if page != nil {
					customers = page.Data
				}
			}

			if err != nil {
				return err
			}

			return render(cmd, customers, func(w io.Writer) error {
				return renderStripeCustomersTable(w, customers)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (1-100)")
	cmd.Flags().StringVar(&email, "email", "", "filter by email address")

	return cmd
}

func newStripeCustomersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CUSTOMER_ID...",
		Short: "Get one or more customers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newStripeClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			customers := make([]stripe.Customer, len(args))

			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(maxConcurrentGets)

			for i, id := range args {
				group.Go(func() error {
					customer, err := client.Customers().Get(ctx, id)
					if err != nil {
						return err
					}

					customers[i] = *customer

					return nil
				})
			}

			err = group.Wait()
			if err != nil {
				return err
			}

			return render(cmd, customers, func(w io.Writer) error {
				return renderStripeCustomersTable(w, customers)
			})
		},
	}
}

func renderStripeCustomersTable(w io.Writer, customers []stripe.Customer) error {
	rows := make([][]string, 0, len(customers))
	for _, customer := range customers {
		rows = append(rows, []string{
			customer.ID,
			customer.Email,
			customer.Name,
			strconv.FormatInt(customer.Balance, 10),
			formatUnix(customer.Created),
		})
	}

	return renderRows(w, "customers", []string{"ID", "Email", "Name", "Balance", "Created"}, rows)
}

func newStripeSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "subs"},
		Short:   "Manage Stripe subscriptions",
	}

	cmd.AddCommand(newStripeSubscriptionsListCommand())

	return cmd
}

func newStripeSubscriptionsListCommand() *cobra.Command {
	var (
		allPages bool
		limit    int
		customer string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newStripeClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &stripe.SubscriptionListParams{Limit: limit, Customer: customer, Status: status}

			var subscriptions []stripe.Subscription

			if allPages {
				subscriptions, err = client.Subscriptions().ListAll(cmd.Context(), params)
			} else {
				var page *stripe.List[stripe.Subscription]

				page, err = client.Subscriptions().List(cmd.Context(), params)
				if page != nil {
					subscriptions = page.Data
				}
			}

			if err != nil {
				return err
			}

			return render(cmd, subscriptions, func(w io.Writer) error {
				rows := make([][]string, 0, len(subscriptions))
				for _, subscription := range subscriptions {
					rows = append(rows, []string{
						subscription.ID,
						subscription.Customer,
						subscription.Status,
						strconv.Itoa(len(subscription.Items.Data)),
						formatUnix(subscription.CurrentPeriodEnd),
					})
				}

				return renderRows(w, "subscriptions", []string{"ID", "Customer", "Status", "Items", "Period End"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (1-100)")
	cmd.Flags().StringVar(&customer, "customer", "", "filter by customer ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, past_due, canceled, all, ...)")

	return cmd
}

func formatUnix(seconds int64) string {
	if seconds == 0 {
		return ""
	}

	return time.Unix(seconds, 0).UTC().Format(time.DateOnly)
}
