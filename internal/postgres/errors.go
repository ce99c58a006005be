package postgres

import (
	"database/sql/driver"
	"errors"
	"strings"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/lib/pq"
)

// Classify marks errors that mean the database could not be reached
// (connection exceptions, shutdowns, broken connections) as ErrStoreUnavailable.
// Anything else is returned unchanged.
func Classify(err error) error {
	if err == nil || !isUnavailable(err) {
		return err
	}
	return ierr.WithError(err).
		WithHint("The database is currently unavailable").
		Mark(ierr.ErrStoreUnavailable)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08xxx connection_exception, 57P0x operator intervention (shutdown)
		code := string(pqErr.Code)
		return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P0")
	}

	return false
}
