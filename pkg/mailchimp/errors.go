package mailchimp

import (
	"encoding/json"
	"strings"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

type errorEnvelope struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// DecodeError maps Mailchimp's problem document onto *apiclient.APIError.
// Title becomes the code and detail the message.
func DecodeError(statusCode int, body []byte) error {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil || (envelope.Title == "" && envelope.Detail == "") {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	message := envelope.Detail
	if message == "" {
		message = envelope.Title
	}

	fields := make([]string, 0, len(envelope.Errors))
	for _, fieldErr := range envelope.Errors {
		fields = append(fields, fieldErr.Field+": "+fieldErr.Message)
	}

	if len(fields) > 0 {
		message += " (" + strings.Join(fields, "; ") + ")"
	}

	return &apiclient.APIError{
		StatusCode: statusCode,
		Code:       envelope.Title,
		Type:       envelope.Type,
		Message:    message,
		Body:       body,
	}
}
