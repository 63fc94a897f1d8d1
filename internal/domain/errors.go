package domain

import (
	"fmt"

	"github.com/mantra-lab/backend/pkg/errorx"
)

// ErrInstallationNotActive stops an execute call before it reaches the
// engine. Inactive installations must be reinstalled, not executed.
var ErrInstallationNotActive = errorx.New(errorx.Unprocessable, "The installation is not active")

// RemoteCleanupError reports an install whose compensating delete on the
// engine also failed. The remote workflow is orphaned and needs manual or
// reconciler cleanup.
type RemoteCleanupError struct {
	RemoteID   string
	Cause      error
	CleanupErr error
}

func (e RemoteCleanupError) Error() string {
	return fmt.Sprintf(
		"install failed (%v) and cleanup of remote workflow %s also failed (%v)",
		e.Cause, e.RemoteID, e.CleanupErr,
	)
}

func (e RemoteCleanupError) Unwrap() error {
	return e.Cause
}

func (e RemoteCleanupError) Errorx() errorx.Error {
	return errorx.New(errorx.Internal, "Failed to install the mantra").
		WithDetails(map[string]any{
			"reason":             "remote_cleanup_failed",
			"engine_workflow_id": e.RemoteID,
			"cleanup_error":      e.CleanupErr.Error(),
		})
}
