package graph

import (
	"encoding/json"
	"fmt"
)

// APIError is a failed call against the upstream Graph API. It carries the
// upstream error message when the response body included one.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph API request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("graph API request failed with status %d", e.StatusCode)
}

// errorEnvelope is the standard Graph API error body
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// newAPIError builds an APIError from a non-2xx response body
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
	}

	return apiErr
}
