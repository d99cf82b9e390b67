package hn

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by a DecodeError when the item endpoint answers "null".
var ErrNotFound = errors.New("item not found")

// TransportError means the request did not complete with a 200 response.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the body did not match the expected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Reason labels err for metrics and logs.
func Reason(err error) string {
	var transportErr *TransportError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &transportErr) && transportErr.StatusCode != 0:
		return "status"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "other"
	}
}
