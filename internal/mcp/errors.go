package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ConnectivityError indicates the task server could not be reached at all.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot connect to task server at %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// TimeoutError indicates a request to the task server timed out.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to task server at %s timed out", e.URL)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StatusError indicates the task server replied with an unexpected HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("task server at %s returned status %d", e.URL, e.StatusCode)
}

// classifyTransportError turns a raw transport failure into a timeout or
// connectivity error.
func classifyTransportError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: url, Err: err}
	}

	return &ConnectivityError{URL: url, Err: err}
}
