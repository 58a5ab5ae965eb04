package api_v1

import (
	"fmt"
	"net/http"
)

// RequestError is an error surfaced to a calling app with an http status
// reflecting the class of problem.
type RequestError struct {
	Status  int
	Message string
}

func (e RequestError) HTTPStatus() int {
	return e.Status
}

func (e RequestError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func Unauthorized(message string) RequestError {
	return RequestError{Status: http.StatusUnauthorized, Message: message}
}

func BadRequest(message string) RequestError {
	return RequestError{Status: http.StatusBadRequest, Message: message}
}

func NotFound(message string) RequestError {
	return RequestError{Status: http.StatusNotFound, Message: message}
}

func MethodNotAllowed(method string) RequestError {
	return RequestError{Status: http.StatusMethodNotAllowed, Message: fmt.Sprintf("method %s not allowed", method)}
}

func Conflict(message string) RequestError {
	return RequestError{Status: http.StatusConflict, Message: message}
}

type InternalError struct {
	Cause error
}

func (e InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Error never includes the cause; the cause is only logged.
func (e InternalError) Error() string {
	return "internal server error"
}

func (e InternalError) Unwrap() error {
	return e.Cause
}

// ErrorResponse is the payload written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
