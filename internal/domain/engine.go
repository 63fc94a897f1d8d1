package domain

import (
	"context"

	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/pkg/api/n8n"
	"github.com/mantra-lab/backend/pkg/xcontext"
)

type EngineDomain interface {
	GetHealth(ctx context.Context, req *model.GetEngineHealthRequest) (*model.GetEngineHealthResponse, error)
}

type engineDomain struct {
	engine n8n.Engine
}

func NewEngineDomain(engine n8n.Engine) *engineDomain {
	return &engineDomain{engine: engine}
}

// GetHealth reports engine reachability. An unreachable engine is a regular
// answer here, not an error response.
func (d *engineDomain) GetHealth(
	ctx context.Context, _ *model.GetEngineHealthRequest,
) (*model.GetEngineHealthResponse, error) {
	health, err := d.engine.CheckConnection(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("The automation engine is unreachable: %v", err)
		return &model.GetEngineHealthResponse{Reachable: false}, nil
	}

	return &model.GetEngineHealthResponse{
		Reachable: health.Reachable,
		Version:   health.Version,
		LatencyMS: health.Latency.Milliseconds(),
	}, nil
}
