package store

import (
	"errors"
	"fmt"
	"strings"
)

// Business-rule failures. Handlers match on these to pick a status code;
// anything else is a storage failure and no mutation has occurred.
var (
	ErrNotFound             = errors.New("not found")
	ErrNotCheckedOut        = errors.New("item is not checked out")
	ErrDuplicateBarcode     = errors.New("barcode already in use")
	ErrDuplicateLogin       = errors.New("username already in use")
	ErrAlreadyReviewed      = errors.New("request has already been reviewed")
	ErrMissingReason        = errors.New("denial reason required")
	ErrCannotDeactivateSelf = errors.New("cannot deactivate your own account")
	ErrInvalidRequest       = errors.New("invalid request")
)

// AlreadyCheckedOutError reports a checkout attempt on an item that is
// already out, carrying the current holder so callers need not re-query.
type AlreadyCheckedOutError struct {
	Holder string
}

func (e *AlreadyCheckedOutError) Error() string {
	return fmt.Sprintf("item is already checked out to %s", e.Holder)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (e.g. "items.barcode"). The sqlite driver only exposes
// this through the error text.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
