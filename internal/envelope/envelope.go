// Package envelope provides the standardized response wrapper for all tool responses.
// Every tool call returns either a success payload or a structured error carrying
// exactly one stable taxonomy code.
package envelope

import (
	naverrors "codenav/internal/errors"
)

// ErrorBody is the caller-visible error payload.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Response is the standard envelope for all tool responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// Success wraps a payload in a success envelope.
func Success(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

// Failure wraps an error in a failure envelope, mapping it to a taxonomy code.
func Failure(err error) *Response {
	navErr := naverrors.FromError(err)
	return &Response{
		Success: false,
		Error: &ErrorBody{
			Code:    string(navErr.Code),
			Message: navErr.Message,
			Details: navErr.Details,
		},
	}
}
