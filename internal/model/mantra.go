package model

type Mantra struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Definition  map[string]any `json:"definition,omitempty"`
	CreatedBy   string         `json:"created_by"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   string         `json:"created_at"`
}

type Installation struct {
	ID               string         `json:"id"`
	MantraID         string         `json:"mantra_id"`
	MantraName       string         `json:"mantra_name,omitempty"`
	EngineWorkflowID string         `json:"engine_workflow_id"`
	IsActive         bool           `json:"is_active"`
	Config           map[string]any `json:"config,omitempty"`
	CreatedAt        string         `json:"created_at"`
}

type CreateMantraRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Definition  map[string]any `json:"definition"`
}

type CreateMantraResponse struct {
	ID string `json:"id"`
}

type GetMantraRequest struct {
	ID string `json:"id"`
}

type GetMantraResponse struct {
	Mantra Mantra `json:"mantra"`
}

type GetListMantraRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListMantraResponse struct {
	Mantras []Mantra `json:"mantras"`
}

type InstallMantraRequest struct {
	MantraID string         `json:"template_id"`
	Config   map[string]any `json:"config"`
}

type InstallMantraResponse struct {
	Installation Installation `json:"installation"`
}

type UninstallMantraRequest struct {
	InstallationID string `json:"installation_id"`
}

type UninstallMantraResponse struct{}

type ExecuteMantraRequest struct {
	InstallationID string         `json:"installation_id"`
	Payload        map[string]any `json:"input"`
}

type ExecuteMantraResponse struct {
	Result map[string]any `json:"result,omitempty"`
}

type GetInstalledMantrasRequest struct{}

type GetInstalledMantrasResponse struct {
	Installations []Installation `json:"installations"`
}
