package n8n

import (
	"context"
	"time"

	"github.com/mantra-lab/backend/pkg/api"
)

// Engine is the surface of the workflow automation engine this backend
// depends on. The real implementation is Endpoint; tests substitute mocks.
type Engine interface {
	CreateWorkflow(ctx context.Context, doc api.JSON) (string, error)
	ActivateWorkflow(ctx context.Context, id string) error
	DeactivateWorkflow(ctx context.Context, id string) error
	ExecuteWorkflow(ctx context.Context, id string, input api.JSON) (api.JSON, error)
	DeleteWorkflow(ctx context.Context, id string) error
	CheckConnection(ctx context.Context) (Health, error)
}

type Health struct {
	Reachable bool          `json:"reachable"`
	Version   string        `json:"version"`
	Latency   time.Duration `json:"latency"`
}
