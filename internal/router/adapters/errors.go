package adapters

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation indicates the provider cannot fulfill the requested action.
var ErrUnsupportedOperation = errors.New("unsupported provider operation")

// maxErrorBody caps how much of a failed backend response is kept.
const maxErrorBody = 64 * 1024

// UpstreamError is returned when a backend answers with a non-2xx status.
// Body holds the raw response body, read before the connection was released.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("provider %q returned status %d: %s", e.Provider, e.StatusCode, body)
}

// UnsupportedOperationError is returned before any network activity when a
// provider does not implement an operation.
type UnsupportedOperationError struct {
	Provider  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("provider %q does not support %s", e.Provider, e.Operation)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupportedOperation
}

// StreamError aborts a stream that had already been opened: the backend
// disconnected, went idle past its timeout, sent a malformed frame, or
// reported an error in-band.
type StreamError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %q stream error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q stream error: %s", e.Provider, e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}
