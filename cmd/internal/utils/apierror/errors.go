package apierror

import (
	"fmt"
	"net/http"
)

// ErrorResponse abstracts all API error responses to the client.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	TickInProgressError   = NewSimple(http.StatusConflict, "A heartbeat tick is already running, try again shortly")
	BatchedModeOnly       = NewSimple(http.StatusBadRequest, "Flushing is only available in batched mode")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid or missing admin token")
)

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}
