package adapters

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType classifies adapter failures so callers can decide whether a
// retry is worthwhile.
type ErrorType string

const (
	ErrorTypeNetwork        ErrorType = "NETWORK_ERROR"
	ErrorTypeAuth           ErrorType = "AUTH_ERROR"
	ErrorTypeRateLimit      ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrorTypeAPI            ErrorType = "API_ERROR"
	ErrorTypeTimeout        ErrorType = "TIMEOUT_ERROR"
	ErrorTypeUnknown        ErrorType = "UNKNOWN_ERROR"
)

// Error carries the classification alongside the underlying cause.
type Error struct {
	Type      ErrorType
	Message   string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) IsRetryable() bool { return e.Retryable }

// NewError builds a classified adapter error with the default retryability
// for its type.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Err:       cause,
		Retryable: defaultRetryable(errType),
	}
}

func defaultRetryable(errType ErrorType) bool {
	switch errType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeAPI, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

// ClassifyHTTPStatus maps an upstream HTTP status to an adapter error.
// Status codes below 400 return nil.
func ClassifyHTTPStatus(status int, message string) *Error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewError(ErrorTypeAuth, message, nil)
	case status == http.StatusTooManyRequests:
		return NewError(ErrorTypeRateLimit, message, nil)
	case status >= 400 && status < 500:
		return NewError(ErrorTypeInvalidRequest, message, nil)
	default:
		return NewError(ErrorTypeAPI, message, nil)
	}
}

// ClassifyTransportError maps a failed HTTP round trip to an adapter error.
func ClassifyTransportError(err error) *Error {
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		return adapterErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrorTypeTimeout, "request timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewError(ErrorTypeTimeout, "request timed out", err)
		}

		return NewError(ErrorTypeNetwork, "network error", err)
	}

	return NewError(ErrorTypeUnknown, "request failed", err)
}
