package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched (via errors.Is) by every error caused by a
// missing, expired or rejected access token. Callers treat it as "not
// logged in".
var ErrUnauthorized = errors.New("catalog: unauthorized")

// Error describes a failed catalog call.
//
// Status holds the HTTP status when the catalog answered; it is zero for
// network failures. Unauthorized failures carry http.StatusUnauthorized,
// including the ones detected locally before a request is sent.
type Error struct {
	Op     string // Operation, e.g. "artist albums"
	Status int    // HTTP status, zero if unknown
	Err    error  // Underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: %s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUnauthorized and the call failed for
// lack of authorization.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Temporary returns true if the failure is worth retrying later:
// rate limiting (429) or a server error (5xx).
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}
