package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vendorhttp "github.com/fivetwenty-io/vendorapi/internal/http"
	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

func TestClient_CacheServesFreshEntries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		writer.Header().Set("ETag", `"v1"`)
		_, _ = writer.Write([]byte(`{"id":"cus_1"}`))
	}))
	defer server.Close()

	client := vendorhttp.NewClient(server.URL,
		vendorhttp.WithVendor("stripe"),
		vendorhttp.WithCache(apiclient.NewMemoryCache(10), time.Minute))

	first, err := client.Get(context.Background(), "/v1/customers/cus_1", nil)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := client.Get(context.Background(), "/v1/customers/cus_1", nil)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.JSONEq(t, `{"id":"cus_1"}`, string(second.Body))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CacheRevalidatesStaleEntries(t *testing.T) {
	t.Parallel()

	var (
		calls       atomic.Int32
		conditional atomic.Int32
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)

		if request.Header.Get("If-None-Match") == `"v1"` {
			conditional.Add(1)
			writer.WriteHeader(http.StatusNotModified)

			return
		}

		writer.Header().Set("ETag", `"v1"`)
		_, _ = writer.Write([]byte(`[{"id":1}]`))
	}))
	defer server.Close()

	client := vendorhttp.NewClient(server.URL,
		vendorhttp.WithVendor("github"),
		vendorhttp.WithCache(apiclient.NewMemoryCache(10), time.Nanosecond))

	_, err := client.Get(context.Background(), "/users", nil)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	resp, err := client.Get(context.Background(), "/users", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.FromCache)
	assert.JSONEq(t, `[{"id":1}]`, string(resp.Body))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), conditional.Load())
}

func TestClient_CacheSkipsErrorsAndWrites(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if calls.Add(1) == 1 {
			writer.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	cache := apiclient.NewMemoryCache(10)
	client := vendorhttp.NewClient(server.URL, vendorhttp.WithCache(cache, time.Minute))

	_, err := client.Get(context.Background(), "/v1/customers", nil)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	_, err = client.Post(context.Background(), "/v1/customers", map[string]string{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	_, err = client.Get(context.Background(), "/v1/customers", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestClient_CacheKeysIncludeCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{name: "authorization", header: "Authorization"},
		{name: "shopify access token", header: "X-Shopify-Access-Token"},
		{name: "lower case custom header", header: "x-api-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				calls.Add(1)
				_, _ = writer.Write([]byte(request.Header.Get(tt.header)))
			}))
			defer server.Close()

			cache := apiclient.NewMemoryCache(10)
			alice := vendorhttp.NewClient(server.URL, vendorhttp.WithCache(cache, time.Minute),
				vendorhttp.WithHeaders(map[string]string{tt.header: "alice"}))
			bob := vendorhttp.NewClient(server.URL, vendorhttp.WithCache(cache, time.Minute),
				vendorhttp.WithHeaders(map[string]string{tt.header: "bob"}))

			_, err := alice.Get(context.Background(), "/me", nil)
			require.NoError(t, err)

			resp, err := bob.Get(context.Background(), "/me", nil)
			require.NoError(t, err)
			assert.False(t, resp.FromCache)
			assert.Equal(t, "bob", string(resp.Body))
			assert.Equal(t, int32(2), calls.Load())

			resp, err = alice.Get(context.Background(), "/me", nil)
			require.NoError(t, err)
			assert.True(t, resp.FromCache)
			assert.Equal(t, "alice", string(resp.Body))
			assert.Equal(t, 2, cache.Len())
		})
	}
}

func TestClient_CachedResponsesAreCopies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("X-Request-Id", "req_1")
		_, _ = writer.Write([]byte(`{"id":"cus_1"}`))
	}))
	defer server.Close()

	client := vendorhttp.NewClient(server.URL, vendorhttp.WithCache(apiclient.NewMemoryCache(10), time.Minute))

	first, err := client.Get(context.Background(), "/v1/customers/cus_1", nil)
	require.NoError(t, err)

	first.Body[2] = 'X'
	first.Headers.Set("X-Request-Id", "changed")

	second, err := client.Get(context.Background(), "/v1/customers/cus_1", nil)
	require.NoError(t, err)
	require.True(t, second.FromCache)

	second.Body[2] = 'Y'
	second.Headers.Del("X-Request-Id")

	third, err := client.Get(context.Background(), "/v1/customers/cus_1", nil)
	require.NoError(t, err)
	require.True(t, third.FromCache)
	assert.JSONEq(t, `{"id":"cus_1"}`, string(third.Body))
	assert.Equal(t, "req_1", third.Headers.Get("X-Request-Id"))
}
