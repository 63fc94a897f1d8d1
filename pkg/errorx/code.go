package errorx

// Code is a stable string identifier suitable for client-side branching. The
// HTTP status a code maps to is decided by the router.
type Code string

var Unknown = Error{Code: Internal, Message: "Request failed"}

const (
	BadRequest       Code = "bad_request"
	BadResponse      Code = "bad_response"
	PermissionDenied Code = "permission_denied"
	NotFound         Code = "not_found"
	Unauthenticated  Code = "unauthenticated"
	AlreadyExists    Code = "already_exists"
	Unprocessable    Code = "unprocessable"
	Unavailable      Code = "unavailable"
	Internal         Code = "internal"
	NotImplemented   Code = "not_implemented"
	TooManyRequests  Code = "too_many_requests"
)
