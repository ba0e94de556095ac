package engine

import (
	"context"
	"encoding/json"
)

// Parameter is a single name/value pair passed to a parameterized job
type Parameter struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Cause is one cause annotation attached to a build. Note is nil when the
// cause carries no note.
type Cause struct {
	Note *string `json:"note,omitempty"`
}

// BuildSummary is a lightweight build record returned by a build list query
type BuildSummary struct {
	ID                  string  `json:"id"`
	Building            bool    `json:"building"`
	Result              string  `json:"result,omitempty"` // Empty until the build is terminal
	EstimatedDurationMs int64   `json:"estimatedDuration"`
	Causes              []Cause `json:"causes,omitempty"`
}

// Detail converts the summary into the fields it shares with a BuildDetail
func (s BuildSummary) Detail() *BuildDetail {
	return &BuildDetail{
		ID:                  s.ID,
		Building:            s.Building,
		Result:              s.Result,
		EstimatedDurationMs: s.EstimatedDurationMs,
	}
}

// BuildDetail is the full record of a single build
type BuildDetail struct {
	ID                  string `json:"id"`
	Number              int    `json:"number,omitempty"`
	URL                 string `json:"url,omitempty"`
	Building            bool   `json:"building"`
	Result              string `json:"result,omitempty"` // Empty until the build is terminal
	FullDisplayName     string `json:"fullDisplayName,omitempty"`
	EstimatedDurationMs int64  `json:"estimatedDuration"`

	// Raw is the complete record as returned by the server, when available
	Raw json.RawMessage `json:"-"`
}

// Launch is the correlation metadata returned when a build is issued
type Launch struct {
	Token    string            `json:"token,omitempty"`
	Location string            `json:"location,omitempty"`
	Headers  map[string]string `json:"headers"`
}

// JobAPI is the remote job API the orchestrator depends on
type JobAPI interface {
	// IssueBuild launches the named job with token as its cause note
	IssueBuild(ctx context.Context, jobName, token string, params map[string]string) (*Launch, error)

	// ListBuilds returns the build summaries of the named job, most recent first
	ListBuilds(ctx context.Context, jobName string) ([]BuildSummary, error)

	// GetBuild returns a single build of the named job
	GetBuild(ctx context.Context, jobName, id string) (*BuildDetail, error)
}
