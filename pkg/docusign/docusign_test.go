package docusign_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
	"github.com/fivetwenty-io/vendorapi/pkg/docusign"
)

const accountPath = "/restapi/v2.1/accounts/acct-1"

func newTestClient(t *testing.T, handler http.HandlerFunc) *docusign.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := docusign.New(&apiclient.Config{
		BaseURL: docusign.AccountURL(server.URL, "acct-1"),
		Headers: docusign.AuthHeaders("token"),
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

func TestAccountURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://demo.docusign.net/restapi/v2.1/accounts/abc", docusign.AccountURL("https://demo.docusign.net", "abc"))
	assert.Equal(t, "https://demo.docusign.net/restapi/v2.1/accounts/abc", docusign.AccountURL(docusign.DemoBaseURI+"/", "abc"))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestEnvelopes_ListAll(t *testing.T) {
	t.Parallel()

	t.Run("follows nextUri", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			requests.Add(1)
			assert.Equal(t, accountPath+"/envelopes", request.URL.Path)
			assert.Equal(t, "Bearer token", request.Header.Get("Authorization"))
			assert.Equal(t, "2024-01-01T00:00:00Z", request.URL.Query().Get("from_date"))

			if request.URL.Query().Get("start_position") == "" {
				assert.Equal(t, "completed,sent", request.URL.Query().Get("status"))
				writeJSON(t, writer, http.StatusOK, map[string]interface{}{
					"envelopes":     []map[string]string{{"envelopeId": "e1"}, {"envelopeId": "e2"}},
					"resultSetSize": "2",
					"totalSetSize":  "3",
					"nextUri":       "/envelopes?start_position=2&count=2&from_date=2024-01-01T00:00:00Z",
				})

				return
			}

			assert.Equal(t, "2", request.URL.Query().Get("start_position"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"envelopes":     []map[string]string{{"envelopeId": "e3"}},
				"resultSetSize": "1",
				"totalSetSize":  "3",
				"nextUri":       "",
			})
		})

		envelopes, err := client.Envelopes().ListAll(context.Background(), &docusign.EnvelopeListParams{
			FromDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:   []string{"completed", "sent"},
			Count:    2,
		})
		require.NoError(t, err)
		require.Len(t, envelopes, 3)
		assert.Equal(t, "e3", envelopes[2].EnvelopeID)
		assert.Equal(t, int32(2), requests.Load())
	})

	t.Run("repeated nextUri stalls", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"envelopes": []map[string]string{{"envelopeId": "e1"}},
				"nextUri":   "/envelopes?start_position=1",
			})
		})

		envelopes, err := client.Envelopes().ListAll(context.Background(), nil)
		require.ErrorIs(t, err, apiclient.ErrStalledPagination)
		assert.Nil(t, envelopes)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestEnvelopes(t *testing.T) {
	t.Parallel()

	t.Run("create from template", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, accountPath+"/envelopes", request.URL.Path)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "tmpl-1", body["templateId"])
			assert.NotContains(t, body, "documents")
			writeJSON(t, writer, http.StatusCreated, map[string]string{"envelopeId": "e9", "status": "sent"})
		})

		summary, err := client.Envelopes().Create(context.Background(), &docusign.EnvelopeDefinition{
			EmailSubject:  "Please sign",
			Status:        "sent",
			TemplateID:    "tmpl-1",
			TemplateRoles: []docusign.TemplateRole{{Email: "ada@example.com", Name: "Ada", RoleName: "Signer"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "e9", summary.EnvelopeID)
	})

	t.Run("create needs documents or a template", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("request should not be sent")
		})

		_, err := client.Envelopes().Create(context.Background(), &docusign.EnvelopeDefinition{EmailSubject: "x", Status: "created"})
		require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	})

	t.Run("void", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPut, request.Method)
			assert.Equal(t, accountPath+"/envelopes/e1", request.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, map[string]string{"status": "voided", "voidedReason": "duplicate"}, body)
			writeJSON(t, writer, http.StatusOK, map[string]string{"envelopeId": "e1"})
		})

		summary, err := client.Envelopes().Void(context.Background(), "e1", "duplicate")
		require.NoError(t, err)
		assert.Equal(t, "voided", summary.Status)

		_, err = client.Envelopes().Void(context.Background(), "e1", "")
		require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	})

	t.Run("get decodes error envelope", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, http.StatusBadRequest, map[string]string{
				"errorCode": "ENVELOPE_DOES_NOT_EXIST",
				"message":   "The envelope specified either does not exist or you have no rights to it.",
			})
		})

		_, err := client.Envelopes().Get(context.Background(), "nope")

		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "ENVELOPE_DOES_NOT_EXIST", apiErr.Code)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case accountPath + "/templates":
			assert.Equal(t, "nda", request.URL.Query().Get("search_text"))
			writeJSON(t, writer, http.StatusOK, map[string]interface{}{
				"envelopeTemplates": []map[string]string{{"templateId": "t1", "name": "NDA"}},
				"resultSetSize":     "1",
			})
		case accountPath + "/templates/t1":
			writeJSON(t, writer, http.StatusOK, map[string]string{"templateId": "t1", "name": "NDA"})
		default:
			t.Errorf("unexpected path %s", request.URL.Path)
		}
	})

	page, err := client.Templates().List(context.Background(), &docusign.TemplateListParams{SearchText: "nda"})
	require.NoError(t, err)
	require.Len(t, page.EnvelopeTemplates, 1)

	template, err := client.Templates().Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "NDA", template.Name)
}
