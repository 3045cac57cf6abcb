package http

import (
	"bytes"
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// lookupCache returns the cache key for a GET and any stored entry. Other
// methods and cache-less clients get an empty key.
func (c *Client) lookupCache(ctx context.Context, method, fullURL string, headers http.Header) (string, *apiclient.CacheEntry) {
	if c.cache == nil || method != http.MethodGet {
		return "", nil
	}

	key := apiclient.CacheKey(c.vendor, method, fullURL, c.credentials(headers))

	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		apiclient.CacheMisses.WithLabelValues(c.vendor).Inc()

		return key, nil
	}

	return key, entry
}

// credentials joins the values of Authorization and every client-wide
// header, so vendors that authenticate with their own header (Shopify's
// X-Shopify-Access-Token) never share entries across tokens.
func (c *Client) credentials(headers http.Header) string {
	names := []string{"Authorization"}
	for name := range c.headers {
		names = append(names, http.CanonicalHeaderKey(name))
	}

	slices.Sort(names)
	names = slices.Compact(names)

	var builder strings.Builder

	for _, name := range names {
		value := headers.Get(name)
		if value == "" {
			continue
		}

		builder.WriteString(name)
		builder.WriteByte('=')
		builder.WriteString(value)
		builder.WriteByte('\n')
	}

	return builder.String()
}

// storeCache saves a 200 response, fresh for the client's cache TTL.
func (c *Client) storeCache(ctx context.Context, key string, status int, headers http.Header, body []byte, etag string) {
	now := time.Now()

	entry := &apiclient.CacheEntry{
		Data:       bytes.Clone(body),
		ETag:       etag,
		StatusCode: status,
		Headers:    headers.Clone(),
		CachedAt:   now,
		FreshUntil: now.Add(c.cacheTTL),
		ExpiresAt:  now.Add(max(constants.DefaultCacheRetention, c.cacheTTL)),
	}

	err := c.cache.Set(ctx, key, entry)
	if err != nil {
		c.logger.Warn("Failed to store cached response", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// cachedResponse copies entry so callers cannot modify what the cache holds.
func cachedResponse(entry *apiclient.CacheEntry) *Response {
	return &Response{
		StatusCode: entry.StatusCode,
		Headers:    entry.Headers.Clone(),
		Body:       bytes.Clone(entry.Data),
		FromCache:  true,
	}
}
