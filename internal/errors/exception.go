package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Exception. Callers branch on the kind, never on the
// message.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindInvalidState: http.StatusConflict,
	KindConflict:     http.StatusConflict,
	KindUnavailable:  http.StatusServiceUnavailable,
}

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int

	// kindOnly marks the per-kind sentinels below, which match every
	// Exception of their kind.
	kindOnly bool
}

var (
	ErrValidation   = &Exception{Kind: KindValidation, Message: "validation error", StatusCode: http.StatusBadRequest, kindOnly: true}
	ErrForbidden    = &Exception{Kind: KindForbidden, Message: "forbidden", StatusCode: http.StatusForbidden, kindOnly: true}
	ErrNotFound     = &Exception{Kind: KindNotFound, Message: "not found", StatusCode: http.StatusNotFound, kindOnly: true}
	ErrInvalidState = &Exception{Kind: KindInvalidState, Message: "invalid state", StatusCode: http.StatusConflict, kindOnly: true}
	ErrConflict     = &Exception{Kind: KindConflict, Message: "conflict", StatusCode: http.StatusConflict, kindOnly: true}
	ErrUnavailable  = &Exception{Kind: KindUnavailable, Message: "unavailable", StatusCode: http.StatusServiceUnavailable, kindOnly: true}
)

func (e *Exception) Error() string {
	return e.Message
}

func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	if t.kindOnly {
		return e.Kind == t.Kind
	}
	return e == t
}

func newException(kind Kind, format string, args ...any) *Exception {
	return &Exception{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: kindStatus[kind],
	}
}

func Validation(format string, args ...any) *Exception {
	return newException(KindValidation, format, args...)
}

func Forbidden(format string, args ...any) *Exception {
	return newException(KindForbidden, format, args...)
}

func InvalidState(format string, args ...any) *Exception {
	return newException(KindInvalidState, format, args...)
}

func Conflict(format string, args ...any) *Exception {
	return newException(KindConflict, format, args...)
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of the first Exception in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
