package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// postgres error classes and codes
const (
	classConnectionException = "08"
	codeQueryCanceled        = "57014"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
)

// IsConnectionError reports whether err means the server could not be used
// at all, as opposed to a failing query.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == classConnectionException {
			return true
		}
		return pqErr.Code == codeAdminShutdown || pqErr.Code == codeCannotConnectNow
	}
	return false
}

// IsQueryCanceled reports a statement timeout or a cancelled query.
func IsQueryCanceled(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeQueryCanceled
	}
	return false
}
