package commands

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vendorapi/pkg/mailchimp"
)

// NewMailchimpCommand creates the mailchimp command group.
func NewMailchimpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailchimp",
		Short: "Work with the Mailchimp Marketing API",
	}

	lists := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"audiences"},
		Short:   "Manage audiences",
	}
	lists.AddCommand(newMailchimpListsListCommand())

	members := &cobra.Command{
		Use:   "members",
		Short: "Manage audience members",
	}
	members.AddCommand(newMailchimpMembersListCommand())

	cmd.AddCommand(lists, members)

	return cmd
}

func newMailchimpListsListCommand() *cobra.Command {
	var (
		allPages bool
		count    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audiences",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newMailchimpClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &mailchimp.ListParams{Count: count, Offset: offset}

			var lists []mailchimp.List

			if allPages {
				lists, err = client.Lists().ListAll(cmd.Context(), params)
			} else {
				var page *mailchimp.ListsPage

				page, err = client.Lists().List(cmd.Context(), params)
				if page != nil {
					lists = page.Lists
				}
			}

			if err != nil {
				return err
			}

			return render(cmd, lists, func(w io.Writer) error {
				rows := make([][]string, 0, len(lists))
				for _, list := range lists {
					rows = append(rows, []string{list.ID, list.Name, strconv.Itoa(list.Stats.MemberCount)})
				}

				return renderRows(w, "audiences", []string{"ID", "Name", "Members"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&count, "count", 0, "page size (1-1000)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of records to skip")

	return cmd
}

func newMailchimpMembersListCommand() *cobra.Command {
	var (
		allPages bool
		count    int
		offset   int
		status   string
	)

	cmd := &cobra.Command{
		Use:   "list LIST_ID",
		Short: "List members of an audience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newMailchimpClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &mailchimp.MemberListParams{Count: count, Offset: offset, Status: status}

			var members []mailchimp.Member

			if allPages {
				members, err = client.Members().ListAll(cmd.Context(), args[0], params)
			} else {
				var page *mailchimp.MembersPage

				page, err = client.Members().List(cmd.Context(), args[0], params)
				if page != nil {
					members = page.Members
				}
			}

			if err != nil {
				return err
			}

			return render(cmd, members, func(w io.Writer) error {
				rows := make([][]string, 0, len(members))
				for _, member := range members {
					rows = append(rows, []string{member.ID, member.EmailAddress, member.FullName, member.Status})
				}

				return renderRows(w, "members", []string{"ID", "Email", "Name", "Status"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&count, "count", 0, "page size (1-1000)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of records to skip")
	cmd.Flags().StringVar(&status, "status", "", "subscribed, unsubscribed, cleaned, pending, transactional or archived")

	return cmd
}
