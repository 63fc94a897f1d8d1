package n8n

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mantra-lab/backend/config"
	"github.com/mantra-lab/backend/pkg/api"
	"github.com/puzpuzpuz/xsync"
)

const apiKeyHeader = "X-N8N-API-KEY"

// Endpoint is the REST client for the n8n automation engine. Retries for
// transport failures and 5xx responses live in the underlying api client;
// a 4xx is surfaced immediately because retrying cannot fix it.
type Endpoint struct {
	apiKey      string
	settleDelay time.Duration

	apiGenerator api.Generator

	// activatedAt remembers when each workflow was last activated so
	// executions arriving inside the settle window can wait it out.
	activatedAt *xsync.MapOf[string, time.Time]
}

func New(cfg config.EngineConfigs) *Endpoint {
	return &Endpoint{
		apiKey:      cfg.APIKey,
		settleDelay: cfg.SettleDelay,
		apiGenerator: api.NewGenerator(cfg.BaseURL, api.RetryPolicy{
			MaxAttempts: cfg.RetryMax,
			BaseDelay:   cfg.RetryBaseDelay,
		}),
		activatedAt: xsync.NewMapOf[time.Time](),
	}
}

func (e *Endpoint) CreateWorkflow(ctx context.Context, doc api.JSON) (string, error) {
	resp, err := e.apiGenerator.New("/workflows").
		Body(doc).
		POST(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return "", err
	}

	if err := statusError(resp, "/workflows"); err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid response")
	}

	// Some engine versions wrap the created workflow in a data envelope.
	if wrapped, err := body.GetJSON("data"); err == nil && wrapped != nil {
		body = wrapped
	}

	return workflowID(body)
}

func (e *Endpoint) ActivateWorkflow(ctx context.Context, id string) error {
	resp, err := e.apiGenerator.New("/workflows/%s/activate", id).
		POST(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return err
	}

	if err := statusError(resp, "/workflows/"+id+"/activate"); err != nil {
		return err
	}

	e.activatedAt.Store(id, time.Now())

	// Webhook registrations are not reachable the instant the engine reports
	// the workflow active.
	if e.settleDelay > 0 {
		select {
		case <-time.After(e.settleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (e *Endpoint) DeactivateWorkflow(ctx context.Context, id string) error {
	resp, err := e.apiGenerator.New("/workflows/%s/deactivate", id).
		POST(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return err
	}

	e.activatedAt.Delete(id)
	return statusError(resp, "/workflows/"+id+"/deactivate")
}

func (e *Endpoint) ExecuteWorkflow(ctx context.Context, id string, input api.JSON) (api.JSON, error) {
	if err := e.waitSettled(ctx, id); err != nil {
		return nil, err
	}

	client := e.apiGenerator.New("/workflows/%s/execute", id)
	if input != nil {
		client = client.Body(input)
	}

	resp, err := client.POST(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return nil, err
	}

	if err := statusError(resp, "/workflows/"+id+"/execute"); err != nil {
		return nil, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return api.JSON{}, nil
	}

	return body, nil
}

func (e *Endpoint) DeleteWorkflow(ctx context.Context, id string) error {
	resp, err := e.apiGenerator.New("/workflows/%s", id).
		DELETE(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return err
	}

	e.activatedAt.Delete(id)
	return statusError(resp, "/workflows/"+id)
}

func (e *Endpoint) CheckConnection(ctx context.Context) (Health, error) {
	begin := time.Now()
	resp, err := e.apiGenerator.New("/healthz").
		GET(ctx, api.APIKey(apiKeyHeader, e.apiKey))
	if err != nil {
		return Health{}, err
	}

	health := Health{
		Reachable: resp.Code == 200,
		Latency:   time.Since(begin),
	}

	if body, ok := resp.Body.(api.JSON); ok {
		if version, err := body.GetString("version"); err == nil {
			health.Version = version
		}
	}

	// Older engines do not expose /healthz; listing a single workflow is the
	// cheapest authenticated probe.
	if resp.Code == 404 {
		resp, err = e.apiGenerator.New("/workflows").
			Query(api.Parameter{"limit": "1"}).
			GET(ctx, api.APIKey(apiKeyHeader, e.apiKey))
		if err != nil {
			return Health{}, err
		}

		health.Reachable = resp.Code == 200
		health.Latency = time.Since(begin)
	}

	return health, nil
}

// waitSettled blocks until the settle window after the last activation of the
// workflow has passed.
func (e *Endpoint) waitSettled(ctx context.Context, id string) error {
	activated, ok := e.activatedAt.Load(id)
	if !ok {
		return nil
	}

	remaining := e.settleDelay - time.Since(activated)
	if remaining <= 0 {
		return nil
	}

	select {
	case <-time.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func statusError(resp *api.Response, path string) error {
	if resp.Code >= 200 && resp.Code < 300 {
		return nil
	}

	message := ""
	if body, ok := resp.Body.(api.JSON); ok {
		if m, err := body.GetString("message"); err == nil {
			message = m
		}
	}

	return api.StatusError{Code: resp.Code, URL: path, Message: message}
}

// workflowID tolerates both string and numeric ids; the engine switched
// formats between versions.
func workflowID(body api.JSON) (string, error) {
	if id, err := body.GetString("id"); err == nil && id != "" {
		return id, nil
	}

	if id, err := body.GetInt("id"); err == nil {
		return strconv.Itoa(id), nil
	}

	return "", errors.New("workflow response misses a usable id")
}
