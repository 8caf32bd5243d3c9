package factcheck

import (
	"errors"
	"fmt"
)

// Kind classifies fact-check client failures
type Kind string

const (
	KindConfiguration    Kind = "configuration"     // Missing credential; no request was made
	KindUpstreamHTTP     Kind = "upstream_http"     // Non-2xx status or transport failure
	KindSchemaValidation Kind = "schema_validation" // 2xx body does not match the expected shape
)

// Error is returned by Client.Search for every failure
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string // Human-readable description
	Err        error  // Underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a fact-check Error of the given kind
func IsKind(err error, kind Kind) bool {
	var fcErr *Error
	return errors.As(err, &fcErr) && fcErr.Kind == kind
}

func configurationError() *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: "Google API key not found. Please set GOOGLE_API_KEY in your environment or .env file.",
	}
}

func httpStatusError(status int, upstreamMessage string) *Error {
	msg := fmt.Sprintf("HTTP error! Status: %d", status)
	if upstreamMessage != "" {
		msg = fmt.Sprintf("API request failed with status %d: %s", status, upstreamMessage)
	}
	return &Error{
		Kind:       KindUpstreamHTTP,
		StatusCode: status,
		Message:    msg,
	}
}

func schemaError(detail string, err error) *Error {
	return &Error{
		Kind:    KindSchemaValidation,
		Message: "invalid fact check response: " + detail,
		Err:     err,
	}
}
