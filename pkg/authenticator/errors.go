package authenticator

import (
	"errors"
	"fmt"
)

// ErrTokenExpired is returned when the provider rejects a refresh token. It
// is terminal: the stored credential must be marked disconnected and a new
// authorization flow started.
var ErrTokenExpired = errors.New("provider rejected the refresh token")

// ExchangeError reports a failed authorization-code exchange.
type ExchangeError struct {
	Err error
}

func (e ExchangeError) Error() string {
	return fmt.Sprintf("cannot exchange authorization code: %v", e.Err)
}

func (e ExchangeError) Unwrap() error {
	return e.Err
}

// RefreshError reports a refresh attempt that could not be made or failed for
// a non-terminal reason.
type RefreshError struct {
	Reason string
	Err    error
}

func (e RefreshError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot refresh token: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot refresh token: %s", e.Reason)
}

func (e RefreshError) Unwrap() error {
	return e.Err
}
