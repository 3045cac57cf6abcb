package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shurcooL/graphql"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// PullRequestState is the GraphQL enum used to filter pull requests.
type PullRequestState string

const defaultGraphQLUserAgent = "vendorapi-go/1.0"

// pullRequestsClient implements PullRequestsClient over GraphQL, paging
// with pageInfo.endCursor.
type pullRequestsClient struct {
	client *graphql.Client
	logger apiclient.Logger
}

// headerTransport adds the configured headers to every GraphQL request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	return t.base.RoundTrip(req)
}

func newPullRequestsClient(cfg *apiclient.Config, endpoint string, logger apiclient.Logger) *pullRequestsClient {
	retry := retryablehttp.NewClient()
	retry.Logger = nil
	retry.RetryMax = cfg.RetryMax

	if cfg.RetryWaitMin > 0 {
		retry.RetryWaitMin = cfg.RetryWaitMin
	}

	if cfg.RetryWaitMax > 0 {
		retry.RetryWaitMax = cfg.RetryWaitMax
	}

	if cfg.Timeout > 0 {
		retry.HTTPClient.Timeout = cfg.Timeout
	}

	headers := make(map[string]string, len(cfg.Headers)+1)
	headers["User-Agent"] = defaultGraphQLUserAgent

	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	for key, value := range cfg.Headers {
		headers[key] = value
	}

	httpClient := &http.Client{
		Transport: &headerTransport{headers: headers, base: retry.StandardClient().Transport},
	}

	return &pullRequestsClient{
		client: graphql.NewClient(endpoint, httpClient),
		logger: logger,
	}
}

type pullRequestNode struct {
	Number      graphql.Int
	Title       graphql.String
	State       graphql.String
	URL         graphql.String
	Merged      graphql.Boolean
	Additions   graphql.Int
	Deletions   graphql.Int
	BaseRefName graphql.String
	HeadRefName graphql.String
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MergedAt    *time.Time
	Author      struct {
		Login graphql.String
	}
}

type pullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			PageInfo struct {
				HasNextPage graphql.Boolean
				EndCursor   graphql.String
			}
			Nodes []pullRequestNode
		} `graphql:"pullRequests(first: $first, after: $after, states: $states, orderBy: {field: CREATED_AT, direction: ASC})"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// ListAll returns every pull request in creation order.
func (c *pullRequestsClient) ListAll(ctx context.Context, owner, repo string, params *PullRequestListParams) ([]PullRequest, error) {
	pageSize := constants.GitHubGraphQLPageSize

	var states *[]PullRequestState

	if params != nil {
		err := apiclient.ValidateRequest(params)
		if err != nil {
			return nil, err
		}

		if params.PageSize > 0 {
			pageSize = params.PageSize
		}

		if len(params.States) > 0 {
			converted := make([]PullRequestState, 0, len(params.States))
			for _, state := range params.States {
				converted = append(converted, PullRequestState(state))
			}

			states = &converted
		}
	}

	fetch := func(ctx context.Context, token string) (*apiclient.TokenPage[PullRequest], error) {
		var after *graphql.String
		if token != "" {
			cursor := graphql.String(token)
			after = &cursor
		}

		var query pullRequestsQuery

		variables := map[string]interface{}{
			"owner":  graphql.String(owner),
			"repo":   graphql.String(repo),
			"first":  graphql.Int(int32(pageSize)), // #nosec G115 -- validated to at most 100
			"after":  after,
			"states": states,
		}

		err := c.client.Query(ctx, &query, variables)
		if err != nil {
			return nil, fmt.Errorf("querying pull requests: %w", err)
		}

		connection := query.Repository.PullRequests
		page := &apiclient.TokenPage[PullRequest]{
			Items: make([]PullRequest, 0, len(connection.Nodes)),
		}

		for _, node := range connection.Nodes {
			page.Items = append(page.Items, node.toPullRequest())
		}

		if connection.PageInfo.HasNextPage {
			page.NextToken = string(connection.PageInfo.EndCursor)
		}

		return page, nil
	}

	pullRequests, err := apiclient.CollectTokens(ctx, fetch, c.logger)
	if err != nil {
		return nil, fmt.Errorf("listing all pull requests: %w", err)
	}

	return pullRequests, nil
}

func (n *pullRequestNode) toPullRequest() PullRequest {
	return PullRequest{
		Number:    int(n.Number),
		Title:     string(n.Title),
		State:     string(n.State),
		URL:       string(n.URL),
		Author:    string(n.Author.Login),
		BaseRef:   string(n.BaseRefName),
		HeadRef:   string(n.HeadRefName),
		Merged:    bool(n.Merged),
		Additions: int(n.Additions),
		Deletions: int(n.Deletions),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		MergedAt:  n.MergedAt,
	}
}
