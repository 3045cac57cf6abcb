package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/vendorapi/pkg/github"
)

// NewGitHubCommand creates the github command group.
func NewGitHubCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "github",
		Aliases: []string{"gh"},
		Short:   "Work with the GitHub API",
	}

	cmd.AddCommand(newGitHubGroup("users", "GitHub users", newGitHubUsersListCommand()))
	cmd.AddCommand(newGitHubGroup("repos", "GitHub repositories", newGitHubReposListCommand()))
	cmd.AddCommand(newGitHubGroup("issues", "GitHub issues", newGitHubIssuesListCommand()))
	cmd.AddCommand(newGitHubGroup("pulls", "GitHub pull requests", newGitHubPullsListCommand()))

	return cmd
}

func newGitHubGroup(use, noun string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Manage " + noun,
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

func newGitHubUsersListCommand() *cobra.Command {
	var (
		allPages bool
		since    int64
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users in signup order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newGitHubClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &github.UserListParams{Since: since, PerPage: perPage}

			var users []github.User
			if allPages {
				users, err = client.Users().ListAll(cmd.Context(), params)
			} else {
				users, err = client.Users().List(cmd.Context(), params)
			}

			if err != nil {
				return err
			}

			return render(cmd, users, func(w io.Writer) error {
				rows := make([][]string, 0, len(users))
				for _, user := range users {
					rows = append(rows, []string{strconv.FormatInt(user.ID, 10), user.Login, user.Type, strconv.FormatBool(user.SiteAdmin)})
				}

				return renderRows(w, "users", []string{"ID", "Login", "Type", "Site Admin"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().Int64Var(&since, "since", 0, "only users with an ID greater than this")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "page size (1-100)")

	return cmd
}

func newGitHubReposListCommand() *cobra.Command {
	var (
		allPages bool
		repoType string
		sort     string
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list ORG",
		Short: "List repositories of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := newGitHubClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &github.RepositoryListParams{Type: repoType, Sort: sort, PerPage: perPage}

			var repos []github.Repository
			if allPages {
				repos, err = client.Repositories().ListAllForOrg(cmd.Context(), args[0], params)
			} else {
				repos, err = client.Repositories().ListForOrg(cmd.Context(), args[0], params)
			}

			if err != nil {
				return err
			}

			return render(cmd, repos, func(w io.Writer) error {
				rows := make([][]string, 0, len(repos))
				for _, repo := range repos {
					rows = append(rows, []string{
						repo.FullName,
						visibility(repo),
						repo.Language,
						repo.DefaultBranch,
						strconv.FormatBool(repo.Archived),
					})
				}

				return renderRows(w, "repositories", []string{"Name", "Visibility", "Language", "Default Branch", "Archived"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&repoType, "type", "", "all, public, private, forks, sources or member")
	cmd.Flags().StringVar(&sort, "sort", "", "created, updated, pushed or full_name")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "page size (1-100)")

	return cmd
}

func visibility(repo github.Repository) string {
	if repo.Visibility != "" {
		return repo.Visibility
	}

	if repo.Private {
		return "private"
	}

	return "public"
}

func newGitHubIssuesListCommand() *cobra.Command {
	var (
		allPages bool
		state    string
		labels   []string
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/REPO",
		Short: "List issues of a repository",
		Long:  "List issues of a repository. Pull requests are included by the API and marked in the table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepository(args[0])
			if err != nil {
				return err
			}

			client, release, err := newGitHubClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			params := &github.IssueListParams{State: state, Labels: labels, PerPage: perPage}

			var issues []github.Issue
			if allPages {
				issues, err = client.Issues().ListAllForRepo(cmd.Context(), owner, repo, params)
			} else {
				issues, err = client.Issues().ListForRepo(cmd.Context(), owner, repo, params)
			}

			if err != nil {
				return err
			}

			return render(cmd, issues, func(w io.Writer) error {
				rows := make([][]string, 0, len(issues))
				for _, issue := range issues {
					kind := "issue"
					if issue.IsPullRequest() {
						kind = "pull"
					}

					rows = append(rows, []string{
						"#" + strconv.Itoa(issue.Number),
						kind,
						issue.State,
						truncate(issue.Title, 60),
						issue.User.Login,
					})
				}

				return renderRows(w, "issues", []string{"Number", "Kind", "State", "Title", "Author"}, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().StringVar(&state, "state", "", "open, closed or all")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "filter by label (repeatable)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "page size (1-100)")

	return cmd
}

func newGitHubPullsListCommand() *cobra.Command {
	var (
		states   []string
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list OWNER/REPO",
		Short: "List all pull requests of a repository",
		Long:  "List all pull requests of a repository through the GraphQL API in creation order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepository(args[0])
			if err != nil {
				return err
			}

			client, release, err := newGitHubClient(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for i := range states {
				states[i] = strings.ToUpper(states[i])
			}

			pulls, err := client.PullRequests().ListAll(cmd.Context(), owner, repo, &github.PullRequestListParams{
				States:   states,
				PageSize: pageSize,
			})
			if err != nil {
				return err
			}

			return render(cmd, pulls, func(w io.Writer) error {
				rows := make([][]string, 0, len(pulls))
				for _, pull := range pulls {
					rows = append(rows, []string{
						"#" + strconv.Itoa(pull.Number),
						pull.State,
						truncate(pull.Title, 60),
						pull.Author,
						pull.HeadRef + " → " + pull.BaseRef,
						pull.UpdatedAt.Format(time.DateOnly),
					})
				}

				return renderRows(w, "pull requests", []string{"Number", "State", "Title", "Author", "Branches", "Updated"}, rows)
			})
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "open, closed or merged (repeatable)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "pull requests per GraphQL query (1-100)")

	return cmd
}

func splitRepository(value string) (string, string, error) {
	owner, repo, ok := strings.Cut(value, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, value)
	}

	return owner, repo, nil
}
