package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vendorapi/pkg/docusign"
)

const defaultEnvelopeWindow = 30 * 24 * time.Hour

// NewDocusignCommand creates the docusign command group.
func NewDocusignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docusign",
		Short: "Work with the DocuSign eSignature API",
		Long:  "Work with the DocuSign eSignature REST API. Set docusign.account_id or docusign.base_url first.",
	}

	envelopes := &cobra.Command{
		Use:   "envelopes",
		Short: "Manage envelopes",
	}
	envelopes.AddCommand(newDocusignEnvelopesListCommand())

	cmd.AddCommand(envelopes)

	return cmd
}

func newDocusignEnvelopesListCommand() *cobra.Command {
	var (
		allPages bool
		fromDate string
		statuses []string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List envelopes changed since a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := time.Now().UTC().Add(-defaultEnvelopeWindow).Truncate(24 * time.Hour)

			if fromDate != "" {
				parsed, err := time.Parse(time.DateOnly, fromDate)
				if err != nil {
					return fmt.Errorf("%w: %s", ErrInvalidDate, fromDate)
				}

				from = parsed
			}

			client, release, err := newDocusignClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &docusign.EnvelopeListParams{FromDate: from, Status: statuses, Count: count}

			var envelopes []docusign.Envelope

			if allPages {
				envelopes, err = client.Envelopes().ListAll(cmd.Context(), params)
			} else {
				var page *docusign.EnvelopesPage

				page, err = client.Envelopes().List(cmd.Context(), params)
				if page != nil {
					envelopes = page.Envelopes
				}
			}

			if err != nil {
				return err
			}

			return render(cmd, envelopes, func(w io.Writer) error {
				rows := make([][]string, 0, len(envelopes))
				for _, envelope := range envelopes {
					rows = append(rows, []string{
						envelope.EnvelopeID,
						envelope.Status,
						truncate(envelope.EmailSubject, 50),
						envelope.SentDateTime,
					})
				}

				return renderRows(w, "envelopes", []string{"ID", "Status", "Subject", "Sent"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&fromDate, "from-date", "", "YYYY-MM-DD (default 30 days ago)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status (repeatable)")
	cmd.Flags().IntVar(&count, "count", 0, "page size (1-1000)")

	return cmd
}
