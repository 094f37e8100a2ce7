package errors

import "net/http"

var ErrInvalidLimit = &Exception{
	Kind:       KindValidation,
	Message:    "limit must be between 1 and 200",
	StatusCode: http.StatusBadRequest,
}
