// Package github is a client for the GitHub REST and GraphQL APIs.
//
// REST list endpoints page through the Link response header. The user
// listing is the exception that keys its pages on the last user ID seen
// ("since"), so it goes through apiclient.CursorPaginator instead.
package github

import (
	"context"
	"strings"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// APIVersion is sent as X-GitHub-Api-Version on every request.
const APIVersion = "2022-11-28"

const vendorName = "github"

// UsersClient defines operations on users.
type UsersClient interface {
	List(ctx context.Context, params *UserListParams) ([]User, error)
	ListAll(ctx context.Context, params *UserListParams) ([]User, error)
	Get(ctx context.Context, login string) (*User, error)
}

// RepositoriesClient defines operations on repositories.
type RepositoriesClient interface {
	ListForOrg(ctx context.Context, org string, params *RepositoryListParams) ([]Repository, error)
	ListAllForOrg(ctx context.Context, org string, params *RepositoryListParams) ([]Repository, error)
	Get(ctx context.Context, owner, repo string) (*Repository, error)
	Create(ctx context.Context, org string, request *RepositoryCreateRequest) (*Repository, error)
	Update(ctx context.Context, owner, repo string, request *RepositoryUpdateRequest) (*Repository, error)
	Delete(ctx context.Context, owner, repo string) error
}

// IssuesClient defines operations on issues.
type IssuesClient interface {
	ListForRepo(ctx context.Context, owner, repo string, params *IssueListParams) ([]Issue, error)
	ListAllForRepo(ctx context.Context, owner, repo string, params *IssueListParams) ([]Issue, error)
	Get(ctx context.Context, owner, repo string, number int) (*Issue, error)
	Create(ctx context.Context, owner, repo string, request *IssueCreateRequest) (*Issue, error)
	Update(ctx context.Context, owner, repo string, number int, request *IssueUpdateRequest) (*Issue, error)
}

// PullRequestsClient defines operations on pull requests.
type PullRequestsClient interface {
	ListAll(ctx context.Context, owner, repo string, params *PullRequestListParams) ([]PullRequest, error)
}

// Client exposes the GitHub resources.
type Client struct {
	users        *usersClient
	repositories *repositoriesClient
	issues       *issuesClient
	pullRequests *pullRequestsClient
}

// AuthHeaders returns the headers that authenticate with a token.
func AuthHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// New creates a GitHub client.
func New(config *apiclient.Config) (*Client, error) {
	if config == nil {
		return nil, apiclient.ErrConfigRequired
	}

	cfg := config.WithDefaultBaseURL(DefaultBaseURL)
	setDefaultHeader(cfg.Headers, "Accept", "application/vnd.github+json")
	setDefaultHeader(cfg.Headers, "X-GitHub-Api-Version", APIVersion)

	transport := vendorhttp.NewClientFromConfig(cfg, vendorName, DecodeError)
	logger := apiclient.LoggerOrNop(cfg.Logger)

	return &Client{
		users:        &usersClient{http: transport, logger: logger},
		repositories: &repositoriesClient{http: transport},
		issues:       &issuesClient{http: transport},
		pullRequests: newPullRequestsClient(cfg, GraphQLURL(cfg.BaseURL), logger),
	}, nil
}

// GraphQLURL derives the GraphQL endpoint from a REST base URL. GitHub
// Enterprise serves REST under /api/v3 and GraphQL under /api/graphql.
func GraphQLURL(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(base, "/api/v3") {
		return strings.TrimSuffix(base, "/v3") + "/graphql"
	}

	return base + "/graphql"
}

func setDefaultHeader(headers map[string]string, key, value string) {
	for existing := range headers {
		if strings.EqualFold(existing, key) {
			return
		}
	}

	headers[key] = value
}

// Users returns the users resource.
func (c *Client) Users() UsersClient {
	return c.users
}

// Repositories returns the repositories resource.
func (c *Client) Repositories() RepositoriesClient {
	return c.repositories
}

// Issues returns the issues resource.
func (c *Client) Issues() IssuesClient {
	return c.issues
}

// PullRequests returns the pull requests resource.
func (c *Client) PullRequests() PullRequestsClient {
	return c.pullRequests
}
