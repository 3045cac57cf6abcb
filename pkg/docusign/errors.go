package docusign

import (
	"encoding/json"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

// DecodeError maps DocuSign's {"errorCode","message"} body onto
// *apiclient.APIError.
func DecodeError(statusCode int, body []byte) error {
	var envelope struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.ErrorCode == "" {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	return &apiclient.APIError{
		StatusCode: statusCode,
		Code:       envelope.ErrorCode,
		Message:    envelope.Message,
		Body:       body,
	}
}
