package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is matches by code and message so errorx values remain usable with
// errors.Is even when Details is set.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// WithDetails returns a copy of the error carrying extra fields for the
// response envelope.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}
