package testutil

import (
	"context"

	"github.com/mantra-lab/backend/pkg/api"
	"github.com/mantra-lab/backend/pkg/api/n8n"
)

// MockEngine substitutes the automation engine in domain tests. Unset
// functions behave as immediate successes.
type MockEngine struct {
	CreateWorkflowFunc     func(ctx context.Context, doc api.JSON) (string, error)
	ActivateWorkflowFunc   func(ctx context.Context, id string) error
	DeactivateWorkflowFunc func(ctx context.Context, id string) error
	ExecuteWorkflowFunc    func(ctx context.Context, id string, input api.JSON) (api.JSON, error)
	DeleteWorkflowFunc     func(ctx context.Context, id string) error
	CheckConnectionFunc    func(ctx context.Context) (n8n.Health, error)
}

func (e *MockEngine) CreateWorkflow(ctx context.Context, doc api.JSON) (string, error) {
	if e.CreateWorkflowFunc != nil {
		return e.CreateWorkflowFunc(ctx, doc)
	}

	return "mock-workflow-id", nil
}

func (e *MockEngine) ActivateWorkflow(ctx context.Context, id string) error {
	if e.ActivateWorkflowFunc != nil {
		return e.ActivateWorkflowFunc(ctx, id)
	}

	return nil
}

func (e *MockEngine) DeactivateWorkflow(ctx context.Context, id string) error {
	if e.DeactivateWorkflowFunc != nil {
		return e.DeactivateWorkflowFunc(ctx, id)
	}

	return nil
}

func (e *MockEngine) ExecuteWorkflow(ctx context.Context, id string, input api.JSON) (api.JSON, error) {
	if e.ExecuteWorkflowFunc != nil {
		return e.ExecuteWorkflowFunc(ctx, id, input)
	}

	return api.JSON{"finished": true}, nil
}

func (e *MockEngine) DeleteWorkflow(ctx context.Context, id string) error {
	if e.DeleteWorkflowFunc != nil {
		return e.DeleteWorkflowFunc(ctx, id)
	}

	return nil
}

func (e *MockEngine) CheckConnection(ctx context.Context) (n8n.Health, error) {
	if e.CheckConnectionFunc != nil {
		return e.CheckConnectionFunc(ctx)
	}

	return n8n.Health{Reachable: true, Version: "1.0.0"}, nil
}
