package http

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// ParseLinkHeader maps each rel in an RFC 8288 Link header to its URL.
// Entries without a rel are skipped.
func ParseLinkHeader(header string) map[string]string {
	links := make(map[string]string)

	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(strings.TrimSpace(part), ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		target = target[1 : len(target)-1]

		for _, param := range segments[1:] {
			key, value, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}

			for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
				links[strings.ToLower(rel)] = target
			}
		}
	}

	return links
}

// NextLink returns the rel="next" URL of resp, if any.
func NextLink(resp *Response) (string, bool) {
	if resp == nil {
		return "", false
	}

	next, ok := ParseLinkHeader(resp.Headers.Get("Link"))["next"]

	return next, ok && next != ""
}

// GetAllLinked GETs path and then every rel="next" URL in turn, handing each
// response to fn. Pagination state lives entirely in the Link header, so no
// cursor is derived from the body. A next URL that repeats one already
// fetched stops with ErrStalledPagination.
func (c *Client) GetAllLinked(ctx context.Context, path string, query url.Values, fn func(*Response) error) error {
	visited := make(map[string]struct{})

	resp, err := c.Get(ctx, path, query)

	for pageNumber := 1; ; pageNumber++ {
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		apiclient.RecordLinkedPage()

		err = fn(resp)
		if err != nil {
			return err
		}

		next, ok := NextLink(resp)
		if !ok {
			return nil
		}

		if _, seen := visited[next]; seen {
			return fmt.Errorf("%w: next link %s repeated after page %d", apiclient.ErrStalledPagination, next, pageNumber)
		}

		visited[next] = struct{}{}

		err = ctx.Err()
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber+1, err)
		}

		resp, err = c.Get(ctx, next, nil)
	}
}
