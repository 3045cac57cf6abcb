package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultCursorParam is the query parameter carrying the cursor when a
// paginator does not name one.
const DefaultCursorParam = "starting_after"

// CursorKeyer is implemented by list items that can act as a cursor. The
// second result is false when the item carries no usable key.
type CursorKeyer interface {
	CursorKey() (string, bool)
}

// Page is one request/response unit of a cursor-paginated list.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// PageFetcher performs exactly one request against pageURL and returns the
// decoded page. pageURL is the caller's URL, with one cursor parameter
// appended on every call after the first.
type PageFetcher[T any] func(ctx context.Context, pageURL string) (*Page[T], error)

// CursorPaginator drives a PageFetcher to exhaustion, taking the cursor for
// each next request from the last item received so far.
type CursorPaginator[T CursorKeyer] struct {
	// Fetch retrieves a single page.
	Fetch PageFetcher[T]
	// Param names the cursor query parameter. Defaults to DefaultCursorParam.
	Param string
	// Logger receives one debug entry per page. Optional.
	Logger Logger
}

// NewCursorPaginator creates a paginator for fetch using param as the cursor
// query parameter. An empty param selects DefaultCursorParam.
func NewCursorPaginator[T CursorKeyer](fetch PageFetcher[T], param string, logger Logger) *CursorPaginator[T] {
	return &CursorPaginator[T]{
		Fetch:  fetch,
		Param:  param,
		Logger: logger,
	}
}

func (p *CursorPaginator[T]) param() string {
	if p.Param == "" {
		return DefaultCursorParam
	}

	return p.Param
}

// Walk fetches pages in order, calling fn after each one, until a page
// reports HasMore=false. Pages are requested strictly one at a time.
//
// Walk returns ErrStalledPagination when a page reports HasMore=true but no
// new cursor can be derived: nothing has been received yet, the last item
// has no cursor key, or the key was already used as a cursor.
func (p *CursorPaginator[T]) Walk(ctx context.Context, rawURL string, fn func(pageNumber int, page *Page[T]) error) error {
	var (
		logger   = LoggerOrNop(p.Logger)
		param    = p.param()
		pageURL  = rawURL
		cursor   string
		seen     = make(map[string]struct{})
		last     T
		haveLast bool
	)

	for pageNumber := 1; ; pageNumber++ {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		page, err := p.Fetch(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		if page == nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber, ErrNilPage)
		}

		pagesFetched.WithLabelValues(strategyCursor).Inc()
		logger.Debug("Fetched page", map[string]interface{}{
			"url":      pageURL,
			"page":     pageNumber,
			"items":    len(page.Items),
			"has_more": page.HasMore,
		})

		err = fn(pageNumber, page)
		if err != nil {
			return err
		}

		if len(page.Items) > 0 {
			last = page.Items[len(page.Items)-1]
			haveLast = true
		}

		if !page.HasMore {
			return nil
		}

		next, err := nextCursor(last, haveLast, seen, pageNumber)
		if err != nil {
			logger.Warn("Pagination stalled", map[string]interface{}{
				"url":   pageURL,
				"page":  pageNumber,
				"error": err.Error(),
			})

			return err
		}

		seen[next] = struct{}{}
		cursor = next
		pageURL = CursorURL(rawURL, param, cursor)
	}
}

func nextCursor[T CursorKeyer](last T, haveLast bool, seen map[string]struct{}, pageNumber int) (string, error) {
	if !haveLast {
		return "", fmt.Errorf("%w: page %d reported more results but none have been received", ErrStalledPagination, pageNumber)
	}

	key, ok := last.CursorKey()
	if !ok || key == "" {
		return "", fmt.Errorf("%w: last item of page %d has no cursor key", ErrStalledPagination, pageNumber)
	}

	if _, exists := seen[key]; exists {
		return "", fmt.Errorf("%w: cursor %q repeated after page %d", ErrStalledPagination, key, pageNumber)
	}

	return key, nil
}

// FetchAll returns every item across all pages in fetch order. Items are
// never de-duplicated. On any error no items are returned.
func (p *CursorPaginator[T]) FetchAll(ctx context.Context, rawURL string) ([]T, error) {
	items := make([]T, 0)

	err := p.Walk(ctx, rawURL, func(_ int, page *Page[T]) error {
		items = append(items, page.Items...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// FetchAll collects every page of rawURL using DefaultCursorParam.
func FetchAll[T CursorKeyer](ctx context.Context, rawURL string, fetch PageFetcher[T]) ([]T, error) {
	return NewCursorPaginator(fetch, DefaultCursorParam, nil).FetchAll(ctx, rawURL)
}

// CursorURL appends param=cursor to rawURL, starting a query string when
// rawURL has none.
func CursorURL(rawURL, param, cursor string) string {
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}

	return rawURL + separator + url.QueryEscape(param) + "=" + url.QueryEscape(cursor)
}

// TokenPage is a page whose response names the token for the next page.
type TokenPage[T any] struct {
	Items     []T
	NextToken string
}

// TokenFetcher fetches the page identified by token. The first call gets "".
type TokenFetcher[T any] func(ctx context.Context, token string) (*TokenPage[T], error)

// CollectTokens walks token-paginated results until a page returns no next
// token. A token seen twice is reported as ErrStalledPagination.
func CollectTokens[T any](ctx context.Context, fetch TokenFetcher[T], logger Logger) ([]T, error) {
	logger = LoggerOrNop(logger)
	items := make([]T, 0)
	seen := make(map[string]struct{})

	var token string

	for pageNumber := 1; ; pageNumber++ {
		err := ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		page, err := fetch(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		if page == nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, ErrNilPage)
		}

		pagesFetched.WithLabelValues(strategyToken).Inc()
		logger.Debug("Fetched page", map[string]interface{}{
			"page":       pageNumber,
			"items":      len(page.Items),
			"next_token": page.NextToken,
		})

		items = append(items, page.Items...)

		if page.NextToken == "" {
			return items, nil
		}

		if _, exists := seen[page.NextToken]; exists {
			return nil, fmt.Errorf("%w: token %q repeated after page %d", ErrStalledPagination, page.NextToken, pageNumber)
		}

		seen[page.NextToken] = struct{}{}
		token = page.NextToken
	}
}

// OffsetPage is a page of offset/count results. Total is the server's count
// of all matching items, or zero when unknown.
type OffsetPage[T any] struct {
	Items []T
	Total int
}

// OffsetFetcher fetches count items starting at offset.
type OffsetFetcher[T any] func(ctx context.Context, offset, count int) (*OffsetPage[T], error)

// CollectOffset walks offset/count results. It stops on a short or empty
// page, or once offset reaches the reported total.
func CollectOffset[T any](ctx context.Context, count int, fetch OffsetFetcher[T], logger Logger) ([]T, error) {
	logger = LoggerOrNop(logger)
	items := make([]T, 0)
	offset := 0

	for pageNumber := 1; ; pageNumber++ {
		err := ctx.Err()
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		page, err := fetch(ctx, offset, count)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}

		if page == nil {
			return nil, fmt.Errorf("fetching page %d: %w", pageNumber, ErrNilPage)
		}

		pagesFetched.WithLabelValues(strategyOffset).Inc()
		logger.Debug("Fetched page", map[string]interface{}{
			"page":   pageNumber,
			"offset": offset,
			"items":  len(page.Items),
			"total":  page.Total,
		})

		items = append(items, page.Items...)
		offset += len(page.Items)

		if len(page.Items) == 0 || len(page.Items) < count {
			return items, nil
		}

		if page.Total > 0 && offset >= page.Total {
			return items, nil
		}
	}
}
