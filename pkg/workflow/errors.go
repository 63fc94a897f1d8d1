package workflow

import "fmt"

// ValidationError reports a structural problem in a template document. It is
// raised before any external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid workflow at %s: %s", e.Field, e.Reason)
}

// UnboundPlaceholderError names a placeholder the binding context cannot
// resolve. Partial substitution is never performed; a template either binds
// completely or not at all.
type UnboundPlaceholderError struct {
	Key string
}

func (e UnboundPlaceholderError) Error() string {
	return fmt.Sprintf("unbound placeholder %q", e.Key)
}
