package overseerr

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind classifies a client error.
type Kind string

const (
	KindConfigurationMissing Kind = "configuration_missing"
	KindTimeout              Kind = "timeout"
	KindConnectionFailed     Kind = "connection_failed"
	KindAPIError             Kind = "api_error"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindValidation           Kind = "validation"
)

const (
	msgURLMissing       = "Overseerr URL not configured. Please check extension settings."
	msgAPIKeyMissing    = "API key not configured. Please check extension settings."
	msgConnectionFailed = "Cannot connect to Overseerr. Please check your URL and network connection."
)

// Error is returned by every Client operation. Message is safe to show to a user.
type Error struct {
	Kind    Kind
	Message string
	Status  int           // HTTP status, KindAPIError only
	Timeout time.Duration // configured bound, KindTimeout only
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// NewValidationError builds a KindValidation error.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func timeoutError(d time.Duration, cause error) *Error {
	secs := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("Connection timed out after %s seconds. Please check your URL and network connection.", secs),
		Timeout: d,
		Err:     cause,
	}
}

func connectionError(cause error) *Error {
	return &Error{Kind: KindConnectionFailed, Message: msgConnectionFailed, Err: cause}
}

func unsupportedMediaType(t MediaType) *Error {
	return &Error{Kind: KindUnsupportedMediaType, Message: fmt.Sprintf("Unsupported media type: %s", t)}
}
