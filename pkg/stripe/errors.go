package stripe

import (
	"encoding/json"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

// DecodeError maps Stripe's {"error":{...}} body onto *apiclient.APIError.
func DecodeError(statusCode int, body []byte) error {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil || (envelope.Error.Message == "" && envelope.Error.Type == "") {
		return apiclient.DefaultErrorDecoder(statusCode, body)
	}

	code := envelope.Error.Code
	if code == "" && envelope.Error.Param != "" {
		code = "param:" + envelope.Error.Param
	}

	return &apiclient.APIError{
		StatusCode: statusCode,
		Code:       code,
		Type:       envelope.Error.Type,
		Message:    envelope.Error.Message,
		Body:       body,
	}
}
