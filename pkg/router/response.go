package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/xcontext"
)

// Every endpoint answers the same envelope. Clients dispatch on the success
// flag, never on HTTP status alone.
type successResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type failureResponse struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

type errorDetail struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(successResponse{Success: true, Data: data}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode the response: %v", err)
	}
}

func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	var xerr errorx.Error
	if !errors.As(err, &xerr) {
		xcontext.Logger(ctx).Errorf("Internal server error: %v", err)
		xerr = errorx.Unknown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(xerr.Code))

	resp := failureResponse{
		Error: errorDetail{
			Message: xerr.Message,
			Code:    string(xerr.Code),
			Details: xerr.Details,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode the error response: %v", err)
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists:
		return http.StatusConflict
	case errorx.Unprocessable:
		return http.StatusUnprocessableEntity
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	case errorx.BadResponse:
		return http.StatusBadGateway
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
