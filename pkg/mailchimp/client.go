// Package mailchimp is a client for the Mailchimp Marketing API v3.
//
// Collections page with offset and count, so ListAll methods use
// apiclient.CollectOffset. Members are addressed by the MD5 hash of their
// lowercased email address.
package mailchimp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const vendorName = "mailchimp"

// ErrInvalidAPIKey is returned when an API key carries no datacenter suffix.
var ErrInvalidAPIKey = errors.New("mailchimp API key must end with -<datacenter>")

// ListsClient defines operations on audiences (lists).
type ListsClient interface {
	List(ctx context.Context, params *ListParams) (*ListsPage, error)
	ListAll(ctx context.Context, params *ListParams) ([]List, error)
	Get(ctx context.Context, listID string) (*List, error)
	Create(ctx context.Context, request *ListRequest) (*List, error)
	Update(ctx context.Context, listID string, request *ListRequest) (*List, error)
	Delete(ctx context.Context, listID string) error
}

// MembersClient defines operations on audience members.
type MembersClient interface {
	List(ctx context.Context, listID string, params *MemberListParams) (*MembersPage, error)
	ListAll(ctx context.Context, listID string, params *MemberListParams) ([]Member, error)
	Get(ctx context.Context, listID, email string) (*Member, error)
	AddOrUpdate(ctx context.Context, listID string, request *MemberRequest) (*Member, error)
	Delete(ctx context.Context, listID, email string) error
}

// Client exposes the Mailchimp resources.
type Client struct {
	lists   *listsClient
	members *membersClient
}

// BaseURLForKey derives the datacenter endpoint from an API key such as
// "0123abcd-us6".
func BaseURLForKey(apiKey string) (string, error) {
	index := strings.LastIndex(apiKey, "-")
	if index < 0 || index == len(apiKey)-1 {
		return "", ErrInvalidAPIKey
	}

	return "https://" + apiKey[index+1:] + ".api.mailchimp.com/3.0", nil
}

// AuthHeaders returns HTTP basic auth headers for an API key. Mailchimp
// ignores the user name.
func AuthHeaders(apiKey string) map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte("vendorapi:" + apiKey))

	return map[string]string{"Authorization": "Basic " + credentials}
}

// New creates a Mailchimp client. config.BaseURL is required since the
// endpoint depends on the account's datacenter; see BaseURLForKey.
func New(config *apiclient.Config) (*Client, error) {
	if config == nil {
		return nil, apiclient.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, apiclient.ErrBaseURLRequired
	}

	transport := vendorhttp.NewClientFromConfig(config.Clone(), vendorName, DecodeError)
	logger := apiclient.LoggerOrNop(config.Logger)

	return &Client{
		lists:   &listsClient{http: transport, logger: logger},
		members: &membersClient{http: transport, logger: logger},
	}, nil
}

// Lists returns the lists resource.
func (c *Client) Lists() ListsClient {
	return c.lists
}

// Members returns the members resource.
func (c *Client) Members() MembersClient {
	return c.members
}

func wrap(action string, err error) error {
	return fmt.Errorf("%s: %w", action, err)
}
