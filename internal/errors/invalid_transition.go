package errors

import "net/http"

var ErrInvalidTransition = &Exception{
	Kind:       KindInvalidState,
	Message:    "status transition not allowed",
	StatusCode: http.StatusConflict,
}
