package stripe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
	"github.com/fivetwenty-io/vendorapi/pkg/stripe"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *stripe.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := stripe.New(&apiclient.Config{
		BaseURL: server.URL,
		Headers: stripe.AuthHeaders("sk_test_123"),
	})
	require.NoError(t, err)

	return client
}

func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(writer).Encode(body))
}

func TestNew_RequiresConfig(t *testing.T) {
	t.Parallel()

	client, err := stripe.New(nil)
	require.ErrorIs(t, err, apiclient.ErrConfigRequired)
	assert.Nil(t, client)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCustomers_ListAll(t *testing.T) {
	t.Parallel()

	t.Run("follows starting_after from the last customer", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			requests.Add(1)
			assert.Equal(t, "/v1/customers", request.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", request.Header.Get("Authorization"))
			assert.Equal(t, "2", request.URL.Query().Get("limit"))

			switch request.URL.Query().Get("starting_after") {
			case "":
				writeJSON(t, writer, http.StatusOK, map[string]interface{}{
					"object":   "list",
					"data":     []map[string]string{{"id": "cus_1"}, {"id": "cus_2"}},
					"has_more": true,
				})
			case "cus_2":
				writeJSON(t, writer, http.StatusOK, map[string]interface{}{
					"object":   "list",
					"data":     []map[string]string{{"id": "cus_3"}},
					"has_more": false,
				})
			default:
				t.Errorf("unexpected cursor %q", request.URL.Query().Get("starting_after"))
			}
		})

		customers, err := client.Customers().ListAll(context.Background(), &stripe.CustomerListParams{Limit: 2})
		require.NoError(t, err)

		ids := make([]string, 0, len(customers))
		for _, customer := range customers {
			ids = append(ids, customer.ID)
		}

		assert.Equal(t, []string{"cus_1", "cus_2", "cus_3"}, ids)
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("ignores a caller supplied cursor", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.URL.Query().Get("starting_after"))
			assert.Equal(t, "100", request.URL.Query().Get("limit"))
			assert.Equal(t, "a@example.com", request.URL.Query().Get("email"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"data":     []map[string]string{{"id": "cus_9"}},
				"has_more": false,
			})
		})

		customers, err := client.Customers().ListAll(context.Background(), &stripe.CustomerListParams{
			Email:         "a@example.com",
			StartingAfter: "cus_0",
		})
		require.NoError(t, err)
		require.Len(t, customers, 1)
	})

	t.Run("api error on a later page discards earlier pages", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Query().Get("starting_after") == "" {
				writeJSON(t, writer, http.StatusOK, map[string]interface{}{
					"data":     []map[string]string{{"id": "cus_1"}},
					"has_more": true,
				})

				return
			}

			writeJSON(t, writer, http.StatusTooManyRequests, map[string]interface{}{
				"error": map[string]string{"type": "rate_limit_error", "message": "Too many requests"},
			})
		})

		customers, err := client.Customers().ListAll(context.Background(), nil)
		require.Error(t, err)
		assert.Nil(t, customers)
		assert.Contains(t, err.Error(), "fetching page 2")
		assert.Equal(t, http.StatusTooManyRequests, apiclient.StatusCode(err))
	})

	t.Run("has_more with an empty page stalls", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"data": []interface{}{}, "has_more": true})
		})

		_, err := client.Customers().ListAll(context.Background(), nil)
		require.ErrorIs(t, err, apiclient.ErrStalledPagination)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCustomers_CRUD(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "/v1/customers/cus_1", request.URL.Path)
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"id": "cus_1", "email": "a@example.com"})
		})

		customer, err := client.Customers().Get(context.Background(), "cus_1")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", customer.Email)
	})

	t.Run("create sends a form body and idempotency key", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
			assert.NotEmpty(t, request.Header.Get("Idempotency-Key"))
			assert.NoError(t, request.ParseForm())
			assert.Equal(t, "a@example.com", request.PostForm.Get("email"))
			assert.Equal(t, "Ada", request.PostForm.Get("name"))
			assert.Equal(t, "gold", request.PostForm.Get("metadata[tier]"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"id": "cus_new", "email": "a@example.com"})
		})

		customer, err := client.Customers().Create(context.Background(), &stripe.CustomerCreateRequest{
			Email:    "a@example.com",
			Name:     "Ada",
			Metadata: map[string]string{"tier": "gold"},
		})
		require.NoError(t, err)
		assert.Equal(t, "cus_new", customer.ID)
	})

	t.Run("create rejects an invalid email before sending", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("request should not be sent")
		})

		_, err := client.Customers().Create(context.Background(), &stripe.CustomerCreateRequest{Email: "nope"})
		require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	})

	t.Run("update clears metadata with empty values", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/customers/cus_1", request.URL.Path)
			assert.NoError(t, request.ParseForm())
			assert.Contains(t, request.PostForm, "metadata[tier]")
			assert.Empty(t, request.PostForm.Get("metadata[tier]"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"id": "cus_1"})
		})

		_, err := client.Customers().Update(context.Background(), "cus_1", &stripe.CustomerUpdateRequest{
			Metadata: map[string]string{"tier": ""},
		})
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodDelete, request.Method)
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"id": "cus_1", "object": "customer", "deleted": true})
		})

		deleted, err := client.Customers().Delete(context.Background(), "cus_1")
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, http.StatusNotFound, map[string]interface{}{
				"error": map[string]string{
					"type":    "invalid_request_error",
					"code":    "resource_missing",
					"message": "No such customer: 'cus_x'",
				},
			})
		})

		_, err := client.Customers().Get(context.Background(), "cus_x")
		require.Error(t, err)
		assert.True(t, apiclient.IsNotFound(err))

		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "resource_missing", apiErr.Code)
		assert.Equal(t, "invalid_request_error", apiErr.Type)
	})
}
