// Package goerror carries the typed errors handlers turn into HTTP responses.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels returned by repositories. CodeOf maps them without wrapping.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Type is the coarse bucket of an Error.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = [...]string{
	TypeServer:     "server",
	TypeBusiness:   "business",
	TypeValidation: "validation",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Code is the stable identifier clients branch on.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
	CodeUnavailable
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:       {"INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:  {"INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:   {"INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:       {"NOT_FOUND", http.StatusNotFound},
	CodeConflict:       {"CONFLICT", http.StatusConflict},
	CodeTooManyRequest: {"TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	CodeUnauthorized:   {"UNAUTHORIZED", http.StatusUnauthorized},
	CodeForbidden:      {"FORBIDDEN", http.StatusForbidden},
	CodeTimeout:        {"TIMEOUT", http.StatusRequestTimeout},
	CodeUnavailable:    {"UNAVAILABLE", http.StatusServiceUnavailable},
}

func (c Code) info() codeInfo {
	if ci, ok := codes[c]; ok {
		return ci
	}
	return codes[CodeInternal]
}

func (c Code) String() string { return c.info().name }

// Status is the HTTP status the router writes for c.
func (c Code) Status() int { return c.info().status }

// Error wraps an optional cause with the message shown to the caller.
type Error struct {
	cause  error
	msg    string
	kind   Type
	code   Code
	fields map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.cause != nil:
		return e.cause.Error()
	case e.msg != "":
		return e.msg
	default:
		return e.kind.String() + " error"
	}
}

// String is the log form, including the cause.
func (e *Error) String() string {
	return fmt.Sprintf("%s/%s: %s (cause: %v)", e.kind, e.code, e.msg, e.cause)
}

// Msg is safe to return to clients; the cause never is.
func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.kind }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.cause }
func (e *Error) StatusCode() int           { return e.code.Status() }

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{cause: err, msg: "Internal server error", kind: TypeServer, code: CodeInternal}
}

// NewBusiness is a rule violation the caller can act on, such as retrying a
// log that is not failed.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, kind: TypeBusiness, code: code}
}

// NewInvalidInput reports field violations. Either err comes from the
// validator, or kv lists field/message pairs; an odd kv is a caller bug and
// degrades to an invalid format error.
func NewInvalidInput(err error, kv ...string) error {
	e := &Error{cause: err, msg: "Validation error", kind: TypeValidation, code: CodeInvalidInput}
	if err != nil {
		return e
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}
	return e
}

// NewInvalidFormat is for requests that cannot be parsed at all. Only the
// first message is kept.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, kind: TypeValidation, code: CodeInvalidFormat}
}

// CodeOf returns the code of the first *Error in err's chain. ErrNotFound and
// ErrConflict map to their codes; anything else is internal.
func CodeOf(err error) Code {
	var ge *Error
	switch {
	case errors.As(err, &ge):
		return ge.code
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
