package api

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a 404 from the remote side. Callers that treat "already
// gone" as success match against it with errors.Is.
var ErrNotFound = errors.New("remote resource not found")

// TransportError is a network-level failure (connection refused, timeout).
// It is retryable; the client has already exhausted its retry budget by the
// time one is returned.
type TransportError struct {
	URL string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response that survived the retry policy.
type StatusError struct {
	Code    int
	URL     string
	Message string
}

func (e StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %d: %s", e.URL, e.Code, e.Message)
	}
	return fmt.Sprintf("%s returned %d", e.URL, e.Code)
}

func (e StatusError) Is(target error) bool {
	if target == ErrNotFound {
		return e.Code == 404
	}

	t, ok := target.(StatusError)
	return ok && t.Code == e.Code && t.URL == e.URL && t.Message == e.Message
}
