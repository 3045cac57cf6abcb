package mailchimp

import (
	"context"
	"crypto/md5" //nolint:gosec // Mailchimp addresses members by MD5 hash
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// SubscriberHash returns the member ID Mailchimp derives from an email
// address: the hex MD5 of the lowercased address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

// membersClient implements MembersClient.
type membersClient struct {
	http   *vendorhttp.Client
	logger apiclient.Logger
}

func (p *MemberListParams) query() (*apiclient.QueryParams, error) {
	query := apiclient.NewQueryParams()
	if p == nil {
		return query, nil
	}

	err := apiclient.ValidateRequest(p)
	if err != nil {
		return nil, err
	}

	return query.
		SetInt("count", p.Count).
		SetInt("offset", p.Offset).
		Set("status", p.Status).
		SetList("fields", p.Fields).
		SetTime("since_last_changed", p.SinceLastChanged), nil
}

func membersPath(listID string) string {
	return apiclient.PathJoin("/lists", listID, "members")
}

func memberPath(listID, email string) string {
	return apiclient.PathJoin("/lists", listID, "members", SubscriberHash(email))
}

// List returns one page of members.
func (c *membersClient) List(ctx context.Context, listID string, params *MemberListParams) (*MembersPage, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	var page MembersPage

	err = c.http.GetJSON(ctx, membersPath(listID), query.ToValues(), &page)
	if err != nil {
		return nil, wrap("listing members", err)
	}

	return &page, nil
}

// ListAll pages through every member of an audience by offset.
func (c *membersClient) ListAll(ctx context.Context, listID string, params *MemberListParams) ([]Member, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	count := constants.MailchimpDefaultCount
	if params != nil && params.Count > 0 {
		count = params.Count
	}

	fetch := func(ctx context.Context, offset, count int) (*apiclient.OffsetPage[Member], error) {
		values := query.ToValues()
		values.Set("offset", strconv.Itoa(offset))
		values.Set("count", strconv.Itoa(count))

		var page MembersPage

		err := c.http.GetJSON(ctx, membersPath(listID), values, &page)
		if err != nil {
			return nil, wrap("listing members", err)
		}

		return &apiclient.OffsetPage[Member]{Items: page.Members, Total: page.TotalItems}, nil
	}

	members, err := apiclient.CollectOffset(ctx, count, fetch, c.logger)
	if err != nil {
		return nil, wrap("listing all members", err)
	}

	return members, nil
}

// Get retrieves a member by email address.
func (c *membersClient) Get(ctx context.Context, listID, email string) (*Member, error) {
	resp, err := c.http.Get(ctx, memberPath(listID, email), nil)
	if err != nil {
		return nil, wrap("getting member", err)
	}

	return parseMember(resp)
}

// AddOrUpdate upserts a member. New members get StatusIfNew; existing
// members keep their status unless Status is set.
func (c *membersClient) AddOrUpdate(ctx context.Context, listID string, request *MemberRequest) (*Member, error) {
	err := apiclient.ValidateRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Put(ctx, memberPath(listID, request.EmailAddress), request)
	if err != nil {
		return nil, wrap("adding or updating member", err)
	}

	return parseMember(resp)
}

// Delete archives a member.
func (c *membersClient) Delete(ctx context.Context, listID, email string) error {
	_, err := c.http.Delete(ctx, memberPath(listID, email))
	if err != nil {
		return wrap("deleting member", err)
	}

	return nil
}

func parseMember(resp *vendorhttp.Response) (*Member, error) {
	var member Member

	err := json.Unmarshal(resp.Body, &member)
	if err != nil {
		return nil, wrap("parsing member response", err)
	}

	return &member, nil
}
