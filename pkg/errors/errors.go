package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Error codes shared by the service, repositories and transports.
const (
	EInternal     = "internal error"
	EInvalid      = "invalid"
	ENotFound     = "not found"
	EConflict     = "conflict"
	EUnauthorized = "unauthorized"
	EUnavailable  = "unavailable"
)

// Error is a coded application error.
//
// Code is matched by transports to pick a status code. Msg is safe to show to
// callers. Op names the operation that failed and Err carries the cause.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("<" + e.Code + ">")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid returns a validation error with a caller-visible message.
func Invalid(op, msg string) *Error {
	return &Error{Code: EInvalid, Op: op, Msg: msg}
}

// Internal wraps a store or driver failure.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}

// ErrorCode returns the code of the first coded error in the chain, or
// EInternal for uncoded errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return EInternal
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Err != nil {
		return ErrorCode(e.Err)
	}
	return EInternal
}

// ErrorMessage returns the caller-visible message. Internal failures never
// leak their cause.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Code == EInternal {
		return "An internal error has occurred."
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return ErrorMessage(e.Err)
	}
	return e.Code
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case EInvalid:
		return http.StatusBadRequest
	case EUnauthorized:
		return http.StatusUnauthorized
	case ENotFound:
		return http.StatusNotFound
	case EConflict:
		return http.StatusConflict
	case EUnavailable:
		return http.StatusServiceUnavailable
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error payload written by the transports.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewBody builds the payload for err.
func NewBody(err error) Body {
	return Body{Code: ErrorCode(err), Message: ErrorMessage(err)}
}
