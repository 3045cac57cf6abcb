// Package http is the transport shared by every vendor client: URL
// building, body encoding, retries, response caching, interceptors and
// error decoding.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

const (
	defaultUserAgent = "vendorapi-go/1.0"
	contentTypeJSON  = "application/json"
	contentTypeForm  = "application/x-www-form-urlencoded"
)

// Client performs requests against one vendor API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       apiclient.Logger
	debug        bool
	userAgent    string
	headers      map[string]string
	vendor       string
	decodeError  apiclient.ErrorDecoder
	cache        apiclient.Cache
	cacheTTL     time.Duration
	interceptors *apiclient.InterceptorChain
}

// Request describes one call. Path is either relative to the base URL or an
// absolute URL, as handed out by Link headers. Form takes precedence over
// Body; Body is sent as JSON.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Form    url.Values
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// FromCache is true when Body came from the response cache.
	FromCache bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger apiclient.Logger) Option {
	return func(c *Client) {
		c.logger = apiclient.LoggerOrNop(logger)
	}
}

// WithDebug logs every request and response.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHeaders adds headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.headers[key] = value
		}
	}
}

// WithTimeout bounds each HTTP exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithRetryConfig enables retries of connection errors, 429 and 5xx.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithErrorDecoder sets how non-2xx bodies become errors.
func WithErrorDecoder(decoder apiclient.ErrorDecoder) Option {
	return func(c *Client) {
		if decoder != nil {
			c.decodeError = decoder
		}
	}
}

// WithCache caches 200 GET responses for ttl and revalidates them by ETag afterwards.
func WithCache(cache apiclient.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache

		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *apiclient.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithVendor labels metrics and cache keys.
func WithVendor(vendor string) Option {
	return func(c *Client) {
		c.vendor = vendor
	}
}

// NewClient creates a transport for baseURL. Retries are off until
// WithRetryConfig is applied.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  retryClient,
		logger:      apiclient.LoggerOrNop(nil),
		userAgent:   defaultUserAgent,
		headers:     make(map[string]string),
		vendor:      "generic",
		decodeError: apiclient.DefaultErrorDecoder,
		cacheTTL:    constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			client.logger.Warn("Retrying request", map[string]interface{}{
				"method":  req.Method,
				"url":     req.URL.String(),
				"attempt": attempt,
			})
		}
	}

	return client
}

// NewClientFromConfig builds a transport from the shared client config.
func NewClientFromConfig(config *apiclient.Config, vendor string, decoder apiclient.ErrorDecoder) *Client {
	opts := []Option{
		WithVendor(vendor),
		WithErrorDecoder(decoder),
		WithLogger(config.Logger),
		WithDebug(config.Debug),
		WithUserAgent(config.UserAgent),
		WithHeaders(config.Headers),
		WithTimeout(config.Timeout),
		WithInterceptors(config.Interceptors),
	}

	if config.RetryMax > 0 {
		opts = append(opts, WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.Cache != nil {
		opts = append(opts, WithCache(config.Cache, config.CacheTTL))
	}

	return NewClient(config.BaseURL, opts...)
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL joins a relative path onto the base URL and appends query,
// using "&" when the path already carries a query string. Absolute URLs are
// used as given.
func (c *Client) ResolveURL(path string, query url.Values) (string, error) {
	target := path
	if !isAbsoluteURL(path) {
		target = c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}

	_, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parsing request URL %q: %w", target, err)
	}

	return apiclient.WithQuery(target, query), nil
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://")
}

// Do performs req. A non-2xx status returns both the response and the
// decoded error.
//
//nolint:funlen,cyclop // one linear request pipeline
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.ResolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	headers := c.buildHeaders(req, contentType)

	intercepted := &apiclient.Request{
		Method:   req.Method,
		Path:     fullURL,
		Headers:  headers,
		Body:     body,
		Metadata: map[string]interface{}{"vendor": c.vendor},
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	cacheKey, cached := c.lookupCache(ctx, req.Method, fullURL, intercepted.Headers)
	if cached != nil && cached.IsFresh() {
		apiclient.CacheHits.WithLabelValues(c.vendor).Inc()

		return c.finish(ctx, intercepted, cachedResponse(cached), nil)
	}

	if cached != nil && cached.ETag != "" {
		intercepted.Headers.Set("If-None-Match", cached.ETag)
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	requestDuration.WithLabelValues(c.vendor, req.Method).Observe(duration.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(c.vendor, req.Method, "error").Inc()

		return c.finish(ctx, intercepted, nil, fmt.Errorf("executing request: %w", err))
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return c.finish(ctx, intercepted, nil, fmt.Errorf("reading response body: %w", err))
	}

	requestsTotal.WithLabelValues(c.vendor, req.Method, strconv.Itoa(httpResp.StatusCode)).Inc()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
			"duration":    duration.String(),
			"bytes":       len(respBody),
		})
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		apiclient.NotModifiedResponses.WithLabelValues(c.vendor).Inc()
		c.storeCache(ctx, cacheKey, cached.StatusCode, cached.Headers, cached.Data, cached.ETag)

		return c.finish(ctx, intercepted, cachedResponse(cached), nil)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.finish(ctx, intercepted, resp, c.decodeError(resp.StatusCode, respBody))
	}

	if cacheKey != "" && resp.StatusCode == http.StatusOK {
		c.storeCache(ctx, cacheKey, resp.StatusCode, resp.Headers, respBody, resp.Headers.Get("ETag"))
	}

	return c.finish(ctx, intercepted, resp, nil)
}

// finish runs response interceptors and returns resp with callErr, or the
// interceptor failure when the call itself succeeded.
func (c *Client) finish(ctx context.Context, req *apiclient.Request, resp *Response, callErr error) (*Response, error) {
	view := &apiclient.Response{Error: callErr}
	if resp != nil {
		view.StatusCode = resp.StatusCode
		view.Headers = resp.Headers
		view.Body = resp.Body
	}

	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, view)
	if err != nil && callErr == nil {
		return resp, err
	}

	return resp, callErr
}

func (c *Client) buildHeaders(req *Request, contentType string) http.Header {
	headers := make(http.Header)
	headers.Set("Accept", contentTypeJSON)
	headers.Set("User-Agent", c.userAgent)

	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	for key, value := range c.headers {
		headers.Set(key, value)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.Form != nil {
		return []byte(req.Form.Encode()), contentTypeForm, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return data, contentTypeJSON, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostForm performs a POST request with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	if form == nil {
		form = url.Values{}
	}

	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// GetJSON performs a GET and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}

	return DecodeJSON(resp, out)
}

// DecodeJSON unmarshals resp.Body into out.
func DecodeJSON(resp *Response, out interface{}) error {
	err := json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
