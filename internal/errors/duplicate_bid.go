package errors

import "net/http"

var ErrDuplicateBid = &Exception{
	Kind:       KindConflict,
	Message:    "you already have an active bid on this task",
	StatusCode: http.StatusConflict,
}
