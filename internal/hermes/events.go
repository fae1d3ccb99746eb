package hermes

import (
	"encoding/json"
	"time"
)

// AnalysisRequestEvent asks the service to run one analysis. Either Problem
// or ProblemID must be set.
type AnalysisRequestEvent struct {
	Kind      string          `json:"kind"`
	ProblemID string          `json:"problem_id,omitempty"`
	Problem   json.RawMessage `json:"problem,omitempty"`
	Samples   int             `json:"samples,omitempty"`
	ReplyTo   string          `json:"reply_to,omitempty"`
}

type AnalysisStartedEvent struct {
	AnalysisID   string `json:"analysis_id"`
	Kind         string `json:"kind"`
	ProblemID    string `json:"problem_id,omitempty"`
	Alternatives int    `json:"alternatives"`
}

type AnalysisCompletedEvent struct {
	AnalysisID string      `json:"analysis_id"`
	Kind       string      `json:"kind"`
	ProblemID  string      `json:"problem_id,omitempty"`
	DurationMs int64       `json:"duration_ms"`
	Result     interface{} `json:"result"`
}

type AnalysisFailedEvent struct {
	AnalysisID string `json:"analysis_id"`
	Kind       string `json:"kind"`
	ProblemID  string `json:"problem_id,omitempty"`
	Error      string `json:"error"`
	Infeasible bool   `json:"infeasible"`
}

type ProblemEvent struct {
	ProblemID string    `json:"problem_id"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
