package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the closed taxonomy carried by Error events and StreamError.
type ErrorCode string

const (
	CodeAuth      ErrorCode = "AUTH_ERROR"
	CodeNotFound  ErrorCode = "NOT_FOUND"
	CodeRateLimit ErrorCode = "RATE_LIMIT"
	CodeServer    ErrorCode = "SERVER_ERROR"
	CodeHTTP      ErrorCode = "HTTP_ERROR"
	CodeNetwork   ErrorCode = "NETWORK_ERROR"
	CodeException ErrorCode = "EXCEPTION"
)

// ErrMissingAPIKey is returned by codecs whose provider cannot be called
// without a key. Adapters surface it as AUTH_ERROR before any network call.
var ErrMissingAPIKey = errors.New("missing api key")

// ErrUnknownProvider is returned when no adapter is registered for a provider id.
var ErrUnknownProvider = errors.New("unknown provider")

// CodeForStatus maps a non-2xx HTTP status observed at stream-open time to an
// ErrorCode. Providers that put the key in the query string answer a bad key
// with 400, so keyInQuery folds 400 into AUTH_ERROR.
func CodeForStatus(status int, keyInQuery bool) ErrorCode {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return CodeAuth
	case keyInQuery && status == http.StatusBadRequest:
		return CodeAuth
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimit
	case status >= 500 && status <= 599:
		return CodeServer
	default:
		return CodeHTTP
	}
}

// StreamError is the error form of an Error event. TestConnection returns it
// so callers can recover the code with errors.As.
type StreamError struct {
	Code    ErrorCode
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Event converts the error into its terminal Error event.
func (e *StreamError) Event() StreamEvent {
	return ErrorEvent(e.Code, e.Message)
}
