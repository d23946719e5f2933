// Package errors is the coded error type every layer returns; import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for clients; values go over the wire so only append
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	// ErrorCodeTooManyRequests is the provider quota window being full
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
	// ErrorCodeUnsupported is a platform generation does not cover yet
	ErrorCodeUnsupported
	// ErrorCodeProviderConfig is a missing or rejected provider credential
	ErrorCodeProviderConfig
	ErrorCodeProviderUnavailable
	ErrorCodeProviderError
	// ErrorCodeEmptyCompletion is a provider answer with no usable text
	ErrorCodeEmptyCompletion
	ErrorCodeGenerationFailed
)

type codeInfo struct {
	name   string
	status int
	retry  bool
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:             {"unknown", http.StatusInternalServerError, false},
	ErrorCodePanic:               {"panic", http.StatusInternalServerError, false},
	ErrorCodeUnavailable:         {"unavailable", http.StatusServiceUnavailable, true},
	ErrorCodeTooManyRequests:     {"quota_exceeded", http.StatusTooManyRequests, true},
	ErrorCodeConflict:            {"conflict", http.StatusConflict, false},
	ErrorCodeUnauthorized:        {"unauthorized", http.StatusUnauthorized, false},
	ErrorCodeForbidden:           {"forbidden", http.StatusForbidden, false},
	ErrorCodeInvalidArgument:     {"invalid_argument", http.StatusUnprocessableEntity, false},
	ErrorCodeValidation:          {"validation", http.StatusBadRequest, false},
	ErrorCodeJSON:                {"json", http.StatusBadRequest, false},
	ErrorCodeNotFound:            {"not_found", http.StatusNotFound, false},
	ErrorCodeDuplicateKey:        {"duplicate_key", http.StatusConflict, false},
	ErrorCodeDB:                  {"db", http.StatusInternalServerError, false},
	ErrorCodeUnsupported:         {"unsupported", http.StatusUnprocessableEntity, false},
	ErrorCodeProviderConfig:      {"provider_config", http.StatusInternalServerError, false},
	ErrorCodeProviderUnavailable: {"provider_unavailable", http.StatusServiceUnavailable, true},
	ErrorCodeProviderError:       {"provider_error", http.StatusBadGateway, true},
	ErrorCodeEmptyCompletion:     {"empty_completion", http.StatusBadGateway, true},
	ErrorCodeGenerationFailed:    {"generation_failed", http.StatusInternalServerError, true},
}

func (c ErrorCode) info() codeInfo {
	if i, ok := codes[c]; ok {
		return i
	}
	return codes[ErrorCodeUnknown]
}

// String is the stable snake_case name used in logs
func (c ErrorCode) String() string { return c.info().name }

// Status is the HTTP status a handler answers with
func (c ErrorCode) Status() int { return c.info().status }

// ErrNotFound is what stores return for a missing row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a client safe message and optional hints next to the wrapped cause
type Error struct {
	code       ErrorCode
	msg        string
	cause      error
	field      string
	op         string
	retryAfter int
	details    []string
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Code() ErrorCode   { return e.code }
func (e *Error) Field() string     { return e.field }
func (e *Error) Op() string        { return e.op }
func (e *Error) RetryAfter() int   { return e.retryAfter }
func (e *Error) Details() []string { return e.details }

// Wire is the error object of the response envelope; the cause never leaves the process
type Wire struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Field      string    `json:"field,omitempty"`
	RetryAfter int       `json:"retry_after_seconds,omitempty"`
	Details    []string  `json:"details,omitempty"`
}

// WireFrom renders any error; foreign errors become unknown with their text as message
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field, RetryAfter: e.retryAfter, Details: e.details}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf is the code of err, unknown when err is foreign or nil
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps err to a response status
func HTTPStatus(err error) int { return CodeOf(err).Status() }

// RetryAfterOf is the advised wait in seconds, zero when err carries none
func RetryAfterOf(err error) int {
	if e, ok := As(err); ok {
		return e.retryAfter
	}
	return 0
}

// Retryable reports whether repeating the call may succeed; db errors defer to IsRetryable
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if CodeOf(err).info().retry {
		return true
	}
	return IsRetryable(err)
}

// with copies the *Error in err and applies set; foreign errors pass through untouched
func with(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	set(&c)
	return &c
}

// WithField names the input field at fault
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp tags err with the operation that failed, e.g. "posts.iterate"
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

// New is a bare coded error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap codes cause under msg; a nil cause still yields an error
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func Validationf(format string, a ...any) error   { return Newf(ErrorCodeValidation, format, a...) }
func DuplicateKeyf(format string, a ...any) error { return Newf(ErrorCodeDuplicateKey, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }

// QuotaExceeded is the rate limit error; clients should wait retryAfter seconds
func QuotaExceeded(retryAfter int, format string, a ...any) error {
	return &Error{code: ErrorCodeTooManyRequests, msg: fmt.Sprintf(format, a...), retryAfter: retryAfter}
}

// Unsupportedf rejects a request and lists what would have been accepted
func Unsupportedf(supported []string, format string, a ...any) error {
	return &Error{code: ErrorCodeUnsupported, msg: fmt.Sprintf(format, a...), details: append([]string(nil), supported...)}
}
