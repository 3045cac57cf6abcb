package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const usersPath = "/users"

// usersClient implements UsersClient.
type usersClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

// List returns one page of users with an ID greater than params.Since.
func (c *usersClient) List(ctx context.Context, params *UserListParams) ([]User, error) {
	query := apiclient.NewQueryParams()
	if params != nil {
		query.SetInt64("since", params.Since).SetInt("per_page", params.PerPage)
	}

	page, err := c.fetchPage(ctx, apiclient.WithQuery(usersPath, query.ToValues()))
	if err != nil {
		return nil, err
	}

	return page.Items, nil
}

// ListAll walks every user. Each next page starts after the ID of the last
// user received; GitHub signals further pages with a rel="next" link.
func (c *usersClient) ListAll(ctx context.Context, params *UserListParams) ([]User, error) {
	perPage := constants.GitHubDefaultPerPage
	if params != nil && params.PerPage > 0 {
		perPage = params.PerPage
	}

	rawURL := apiclient.WithQuery(usersPath, apiclient.NewQueryParams().SetInt("per_page", perPage).ToValues())
	paginator := apiclient.NewCursorPaginator(c.fetchPage, constants.CursorSince, c.logger)

	users, err := paginator.FetchAll(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("listing all users: %w", err)
	}

	return users, nil
}

func (c *usersClient) fetchPage(ctx context.Context, pageURL string) (*apiclient.Page[User], error) {
	resp, err := c.http.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var users []User

	err = json.Unmarshal(resp.Body, &users)
	if err != nil {
		return nil, fmt.Errorf("parsing users response: %w", err)
	}

	_, hasNext := vendorhttp.NextLink(resp)

	return &apiclient.Page[User]{Items: users, HasMore: hasNext}, nil
}

// Get retrieves a user by login.
func (c *usersClient) Get(ctx context.Context, login string) (*User, error) {
	resp, err := c.http.Get(ctx, apiclient.PathJoin(usersPath, login), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}
