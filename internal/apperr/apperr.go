package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the HTTP boundary.
type Kind string

const (
	KindValidation  Kind = "validation_error"
	KindAuth        Kind = "auth_error"
	KindUpstream    Kind = "upstream_error"
	KindInternal    Kind = "internal_error"
	KindPersistence Kind = "persistence_error"
	KindUnavailable Kind = "unavailable"
)

// Error is a service error carrying the status and detail reported to the caller.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Detail: detail}
}

func Auth(detail string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Detail: detail}
}

// Upstream reports a downstream failure. The downstream status is kept when it
// is an error status; anything else, including a call that could not be made, is 502.
func Upstream(status int, detail string, err error) *Error {
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	return &Error{Kind: KindUpstream, Status: status, Detail: detail, Err: err}
}

func Internal(detail string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Detail: detail, Err: err}
}

func Persistence(detail string, err error) *Error {
	return &Error{Kind: KindPersistence, Status: http.StatusInternalServerError, Detail: detail, Err: err}
}

func Unavailable(detail string) *Error {
	return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Detail: detail}
}

// As extracts the service error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// StatusOf maps any error to an HTTP status. Unknown errors are 500.
func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status > 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
