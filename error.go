package artpdf

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// Each code maps to one failure class of the pipeline. All of them are
// terminal: nothing is retried or downgraded.
const (
	EINVALID  = "invalid"
	EINTERNAL = "internal"

	// EFETCH is a transport failure, timeout or non-2xx response.
	EFETCH = "fetch"

	// ENOTFOUND means the article root is absent from the page.
	ENOTFOUND = "not_found"

	// EMISSING means an element the extractor requires (title, media
	// container) is absent from an otherwise valid article.
	EMISSING = "missing"

	ERENDER  = "render"
	EPERSIST = "persist"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error and the human user should only see "Internal error" as the
// message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("artpdf error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("artpdf error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so errors.Is sees through the code.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code and message that wraps err.
// If err already carries an application code it is returned unchanged, so
// the innermost classification wins.
func WrapError(code string, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
