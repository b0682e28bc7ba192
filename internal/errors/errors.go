package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used as markers. Callers attach them with ErrorBuilder.Mark
// and test for them with errors.Is or the helpers below.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrDatabase         = errors.New("database error")
	ErrInternal         = errors.New("internal error")
	ErrSystem           = errors.New("system error")
	ErrConnectivity     = errors.New("connectivity failure")
	ErrInsufficientData = errors.New("insufficient data")
)

// InternalError carries the marked cause together with the user facing hint
// and any details that are safe to report back to the caller.
type InternalError struct {
	Err               error
	DisplayError      string
	ReportableDetails map[string]interface{}
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError
	}
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain carries the reference marker.
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// As is a passthrough to the underlying errors package.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsConnectivity(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsInsufficientData reports whether the computation failed only because the
// repository had nothing usable to analyse.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// HTTPStatusFromErr maps a marked error to the status code the API returns.
func HTTPStatusFromErr(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConnectivity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
