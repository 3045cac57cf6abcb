package mailchimp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
	"github.com/fivetwenty-io/vendorapi/pkg/mailchimp"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *mailchimp.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := mailchimp.New(&apiclient.Config{
		BaseURL: server.URL + "/3.0",
		Headers: mailchimp.AuthHeaders("abc123-us6"),
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

func TestBaseURLForKey(t *testing.T) {
	t.Parallel()

	baseURL, err := mailchimp.BaseURLForKey("0123abcd-us6")
	require.NoError(t, err)
	assert.Equal(t, "https://us6.api.mailchimp.com/3.0", baseURL)

	_, err = mailchimp.BaseURLForKey("nodatacenter")
	require.ErrorIs(t, err, mailchimp.ErrInvalidAPIKey)

	_, err = mailchimp.BaseURLForKey("trailing-")
	require.ErrorIs(t, err, mailchimp.ErrInvalidAPIKey)
}

func TestSubscriberHash(t *testing.T) {
	t.Parallel()

	// md5("urist.mcvankab@freddiesjokes.com")
	assert.Equal(t, "62eeb292278cc15f5817cb78f7790b08", mailchimp.SubscriberHash("Urist.McVankab@FreddiesJokes.com"))
}

func TestLists_ListAll(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/3.0/lists", request.URL.Path)
		assert.Equal(t, "2", request.URL.Query().Get("count"))

		user, password, ok := request.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "vendorapi", user)
		assert.Equal(t, "abc123-us6", password)

		offset, err := strconv.Atoi(request.URL.Query().Get("offset"))
		assert.NoError(t, err)

		lists := []map[string]string{}
		for i := offset; i < offset+2 && i < 3; i++ {
			lists = append(lists, map[string]string{"id": "list" + strconv.Itoa(i)})
		}

		writeJSON(t, writer, http.StatusOK, map[string]interface{}{"lists": lists, "total_items": 3})
	})

	lists, err := client.Lists().ListAll(context.Background(), &mailchimp.ListParams{Count: 2, Offset: 7})
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, "list2", lists[2].ID)
	assert.Equal(t, int32(2), requests.Load())
}

func TestLists_CreateValidates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("request should not be sent")
	})

	_, err := client.Lists().Create(context.Background(), &mailchimp.ListRequest{Name: "Newsletter"})
	require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "Contact")
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestMembers(t *testing.T) {
	t.Parallel()

	hash := mailchimp.SubscriberHash("ada@example.com")

	t.Run("add or update puts by hash", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPut, request.Method)
			assert.Equal(t, "/3.0/lists/abc/members/"+hash, request.URL.Path)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "Ada@example.com", body["email_address"])
			assert.Equal(t, "subscribed", body["status_if_new"])
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"id": hash, "email_address": "ada@example.com", "status": "subscribed"})
		})

		member, err := client.Members().AddOrUpdate(context.Background(), "abc", &mailchimp.MemberRequest{
			EmailAddress: "Ada@example.com",
			StatusIfNew:  "subscribed",
		})
		require.NoError(t, err)
		assert.Equal(t, hash, member.ID)
	})

	t.Run("list all stops on a short page", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/3.0/lists/abc/members", request.URL.Path)
			assert.Equal(t, "subscribed", request.URL.Query().Get("status"))

			if request.URL.Query().Get("offset") == "0" {
				writeJSON(t, writer, http.StatusOK, map[string]interface{}{
					"members":     []map[string]string{{"id": "1"}, {"id": "2"}},
					"total_items": 0,
				})

				return
			}

			assert.Equal(t, "2", request.URL.Query().Get("offset"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{"members": []map[string]string{{"id": "3"}}})
		})

		members, err := client.Members().ListAll(context.Background(), "abc", &mailchimp.MemberListParams{Count: 2, Status: "subscribed"})
		require.NoError(t, err)
		assert.Len(t, members, 3)
	})

	t.Run("get not found decodes problem document", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, http.StatusNotFound, map[string]interface{}{
				"type":   "https://mailchimp.com/developer/marketing/docs/errors/",
				"title":  "Resource Not Found",
				"status": 404,
				"detail": "The requested resource could not be found.",
			})
		})

		_, err := client.Members().Get(context.Background(), "abc", "ada@example.com")
		require.Error(t, err)
		assert.True(t, apiclient.IsNotFound(err))

		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Resource Not Found", apiErr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodDelete, request.Method)
			assert.Equal(t, "/3.0/lists/abc/members/"+hash, request.URL.Path)
			writer.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, client.Members().Delete(context.Background(), "abc", "ADA@example.com"))
	})
}

func TestDecodeError_FieldErrors(t *testing.T) {
	t.Parallel()

	err := mailchimp.DecodeError(http.StatusBadRequest, []byte(`{"title":"Invalid Resource","status":400,"detail":"Your merge fields were invalid.","errors":[{"field":"FNAME","message":"required"}]}`))

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Your merge fields were invalid. (FNAME: required)", apiErr.Message)
}
