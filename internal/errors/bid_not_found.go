package errors

import "net/http"

var ErrBidNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "bid not found",
	StatusCode: http.StatusNotFound,
}
