package errors

import "net/http"

var ErrBidNotPending = &Exception{
	Kind:       KindConflict,
	Message:    "bid is no longer pending",
	StatusCode: http.StatusConflict,
}
