package errors

import "net/http"

var ErrLockUnavailable = &Exception{
	Kind:       KindUnavailable,
	Message:    "task is busy, try again",
	StatusCode: http.StatusServiceUnavailable,
}
