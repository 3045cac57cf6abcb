package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// issuesClient implements IssuesClient.
type issuesClient struct {
	http *vendorhttp.Client
}

func (p *IssueListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		Set("state", p.State).
		SetList("labels", p.Labels).
		Set("assignee", p.Assignee).
		Set("creator", p.Creator).
		Set("mentioned", p.Mentioned).
		SetTime("since", p.Since).
		Set("sort", p.Sort).
		Set("direction", p.Direction).
		SetInt("per_page", p.PerPage).
		SetInt("page", p.Page), nil
}

func issuesPath(owner, repo string) string {
	return apiclient.PathJoin("/repos", owner, repo, "issues")
}

func issuePath(owner, repo string, number int) string {
	return apiclient.PathJoin("/repos", owner, repo, "issues", strconv.Itoa(number))
}

// ListForRepo returns one page of a repository's issues.
func (c *issuesClient) ListForRepo(ctx context.Context, owner, repo string, params *IssueListParams) ([]Issue, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, issuesPath(owner, repo), query.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	return parseIssues(resp)
}

// ListAllForRepo follows the Link header through every page. params.Page
// is ignored.
func (c *issuesClient) ListAllForRepo(ctx context.Context, owner, repo string, params *IssueListParams) ([]Issue, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	values := query.ToValues()
	values.Del("page")

	if values.Get("per_page") == "" {
		values.Set("per_page", strconv.Itoa(constants.GitHubDefaultPerPage))
	}

	issues := make([]Issue, 0)

	err = c.http.GetAllLinked(ctx, issuesPath(owner, repo), values, func(resp *vendorhttp.Response) error {
		page, err := parseIssues(resp)
		if err != nil {
			return err
		}

		issues = append(issues, page...)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing all issues: %w", err)
	}

	return issues, nil
}

// Get retrieves an issue by number.
func (c *issuesClient) Get(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	resp, err := c.http.Get(ctx, issuePath(owner, repo, number), nil)
	if err != nil {
		return nil, fmt.Errorf("getting issue: %w", err)
	}

	return parseIssue(resp)
}

// Create opens an issue.
func (c *issuesClient) Create(ctx context.Context, owner, repo string, request *IssueCreateRequest) (*Issue, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, issuesPath(owner, repo), request)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	return parseIssue(resp)
}

// Update edits an issue.
func (c *issuesClient) Update(ctx context.Context, owner, repo string, number int, request *IssueUpdateRequest) (*Issue, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Patch(ctx, issuePath(owner, repo, number), request)
	if err != nil {
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	return parseIssue(resp)
}

func parseIssue(resp *vendorhttp.Response) (*Issue, error) {
	var issue Issue

	err := json.Unmarshal(resp.Body, &issue)
	if err != nil {
		return nil, fmt.Errorf("parsing issue response: %w", err)
	}

	return &issue, nil
}

func parseIssues(resp *vendorhttp.Response) ([]Issue, error) {
	var issues []Issue

	err := json.Unmarshal(resp.Body, &issues)
	if err != nil {
		return nil, fmt.Errorf("parsing issues response: %w", err)
	}

	return issues, nil
}
