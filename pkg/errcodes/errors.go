package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Fields maps a payload field name to every message produced for it. It is
	// only populated for validation errors.
	Fields map[string][]string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Fields = err.Fields
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// Unauthorized returns a 401 error. It's used both for missing sessions and
// for credentials that don't match.
func Unauthorized(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  msg,
		Code:     "unauthorized",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(msg string) error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  msg,
		Code:     "forbidden",
	}
}

// AdminRequired is returned by mutations that re-check the caller's role
// inside the service layer.
func AdminRequired() error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  "Unauthorized: Admin access required",
		Code:     "admin_required",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

// Conflict returns a 409 error, e.g. for an identifier that's already taken.
func Conflict(msg string) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  msg,
		Code:     "conflict",
	}
}

// PersistenceFailure is returned when the store rejects a write. Nothing has
// been persisted when this is returned.
func PersistenceFailure(msg string) error {
	return &Error{
		HTTPCode: http.StatusInternalServerError,
		Message:  msg,
		Code:     "persistence_error",
	}
}

func UpstreamFailure(msg string) error {
	return &Error{
		HTTPCode: http.StatusBadGateway,
		Message:  msg,
		Code:     "upstream_error",
	}
}

func ServiceUnavailable(msg string) error {
	return &Error{
		HTTPCode: http.StatusServiceUnavailable,
		Message:  msg,
		Code:     "service_unavailable",
	}
}

func PayloadTooLarge(limit int64) error {
	return &Error{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Message:  fmt.Sprintf("File size should be less than %d MB", limit/(1024*1024)),
		Code:     "payload_too_large",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

// FieldValidationError is a validation error that carries every failing field.
// The message is the first field's first message so that clients that only
// show one line still get something useful.
func FieldValidationError(msg string, fields map[string][]string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
		Fields:   fields,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
