package github

import (
	"encoding/json"
	"strings"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

type errorEnvelope struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// DecodeError maps GitHub's {"message": ...} body onto *apiclient.APIError.
// Validation details from "errors" are appended to the message.
func DecodeError(statusCode int, body []byte) error {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.Message == "" {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	message := envelope.Message
	code := ""

	details := make([]string, 0, len(envelope.Errors))
	for _, detail := range envelope.Errors {
		if code == "" {
			code = detail.Code
		}

		switch {
		case detail.Message != "":
			details = append(details, detail.Message)
		case detail.Field != "":
			details = append(details, detail.Resource+"."+detail.Field+" "+detail.Code)
		}
	}

	if len(details) > 0 {
		message += ": " + strings.Join(details, "; ")
	}

	return &apiclient.APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Body:       body,
	}
}
