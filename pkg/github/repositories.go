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

// repositoriesClient implements RepositoriesClient.
type repositoriesClient struct {
	http *vendorhttp.Client
}

func (p *RepositoryListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		Set("type", p.Type).
		Set("sort", p.Sort).
		Set("direction", p.Direction).
		SetInt("per_page", p.PerPage).
		SetInt("page", p.Page), nil
}

func repoPath(owner, repo string) string {
	return apiclient.PathJoin("/repos", owner, repo)
}

// ListForOrg returns one page of an organization's repositories.
func (c *repositoriesClient) ListForOrg(ctx context.Context, org string, params *RepositoryListParams) ([]Repository, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, apiclient.PathJoin("/orgs", org, "repos"), query.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	return parseRepositories(resp)
}

// ListAllForOrg follows the Link header through every page. params.Page
// is ignored.
func (c *repositoriesClient) ListAllForOrg(ctx context.Context, org string, params *RepositoryListParams) ([]Repository, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	values := query.ToValues()
	values.Del("page")

	if values.Get("per_page") == "" {
		values.Set("per_page", strconv.Itoa(constants.GitHubDefaultPerPage))
	}

	repositories := make([]Repository, 0)

	err = c.http.GetAllLinked(ctx, apiclient.PathJoin("/orgs", org, "repos"), values, func(resp *vendorhttp.Response) error {
		page, err := parseRepositories(resp)
		if err != nil {
			return err
		}

		repositories = append(repositories, page...)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing all repositories: %w", err)
	}

	return repositories, nil
}

// Get retrieves a repository.
func (c *repositoriesClient) Get(ctx context.Context, owner, repo string) (*Repository, error) {
	resp, err := c.http.Get(ctx, repoPath(owner, repo), nil)
	if err != nil {
		return nil, fmt.Errorf("getting repository: %w", err)
	}

	return parseRepository(resp)
}

// Create creates a repository in an organization.
func (c *repositoriesClient) Create(ctx context.Context, org string, request *RepositoryCreateRequest) (*Repository, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, apiclient.PathJoin("/orgs", org, "repos"), request)
	if err != nil {
		return nil, fmt.Errorf("creating repository: %w", err)
	}

	return parseRepository(resp)
}

// Update changes repository settings.
func (c *repositoriesClient) Update(ctx context.Context, owner, repo string, request *RepositoryUpdateRequest) (*Repository, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Patch(ctx, repoPath(owner, repo), request)
	if err != nil {
		return nil, fmt.Errorf("updating repository: %w", err)
	}

	return parseRepository(resp)
}

// Delete deletes a repository.
func (c *repositoriesClient) Delete(ctx context.Context, owner, repo string) error {
	_, err := c.http.Delete(ctx, repoPath(owner, repo))
	if err != nil {
		return fmt.Errorf("deleting repository: %w", err)
	}

	return nil
}

func parseRepository(resp *vendorhttp.Response) (*Repository, error) {
	var repository Repository

	err := json.Unmarshal(resp.Body, &repository)
	if err != nil {
		return nil, fmt.Errorf("parsing repository response: %w", err)
	}

	return &repository, nil
}

func parseRepositories(resp *vendorhttp.Response) ([]Repository, error) {
	var repositories []Repository

	err := json.Unmarshal(resp.Body, &repositories)
	if err != nil {
		return nil, fmt.Errorf("parsing repositories response: %w", err)
	}

	return repositories, nil
}
