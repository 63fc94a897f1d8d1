package model

type GetEngineHealthRequest struct{}

type GetEngineHealthResponse struct {
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}
