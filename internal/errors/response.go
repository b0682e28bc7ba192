package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorResponse is the JSON envelope returned by the API on failure.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Display       string                 `json:"display"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse converts any error into the API envelope. Hints take
// precedence over the raw message for the display text.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Success: false}
	if err == nil {
		return resp
	}

	resp.Error.InternalError = err.Error()
	resp.Error.Display = err.Error()

	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.DisplayError != "" {
			resp.Error.Display = ie.DisplayError
		}
		resp.Error.Details = ie.ReportableDetails
	} else if hints := errors.GetAllHints(err); len(hints) > 0 {
		resp.Error.Display = hints[0]
	}

	return resp
}
