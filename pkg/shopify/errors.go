package shopify

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// DecodeError maps Shopify's {"errors": ...} body onto *apiclient.APIError.
// errors is either a message string or an object of field to messages.
func DecodeError(statusCode int, body []byte) error {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}

	err := json.Unmarshal(body, &envelope)
	if err != nil || len(envelope.Errors) == 0 {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	message := errorMessage(envelope.Errors)
	if message == "" {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	return &apiclient.APIError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

func errorMessage(raw json.RawMessage) string {
	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text
	}

	var fields map[string]interface{}
	if json.Unmarshal(raw, &fields) != nil {
		return strings.TrimSpace(string(raw))
	}

	parts := make([]string, 0, len(fields))

	for _, field := range slices.Sorted(maps.Keys(fields)) {
		switch value := fields[field].(type) {
		case []interface{}:
			messages := make([]string, 0, len(value))
			for _, item := range value {
				messages = append(messages, fmt.Sprint(item))
			}

			parts = append(parts, field+" "+strings.Join(messages, ", "))
		default:
			parts = append(parts, field+" "+fmt.Sprint(value))
		}
	}

	return strings.Join(parts, "; ")
}
