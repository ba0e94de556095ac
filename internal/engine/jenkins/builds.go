package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"jenkinsrun/internal/engine"
)

// buildsTree limits the build list response to the fields needed for correlation
const buildsTree = "builds[id,building,result,estimatedDuration,actions[causes[note]]]"

// jenkinsBuild represents a build as returned by the Jenkins JSON API
type jenkinsBuild struct {
	ID                string          `json:"id"`
	Number            int             `json:"number"`
	URL               string          `json:"url"`
	Building          bool            `json:"building"`
	Result            *string         `json:"result"`
	FullDisplayName   string          `json:"fullDisplayName"`
	EstimatedDuration int64           `json:"estimatedDuration"`
	Actions           []jenkinsAction `json:"actions"`
}

// jenkinsAction is one entry of a build's actions; only cause actions carry causes
type jenkinsAction struct {
	Causes []jenkinsCause `json:"causes"`
}

type jenkinsCause struct {
	Note *string `json:"note"`
}

type jenkinsJobBuilds struct {
	Builds []jenkinsBuild `json:"builds"`
}

func (b jenkinsBuild) result() string {
	if b.Result == nil {
		return ""
	}
	return *b.Result
}

// summary flattens the causes of every action, in order
func (b jenkinsBuild) summary() engine.BuildSummary {
	var causes []engine.Cause
	for _, action := range b.Actions {
		for _, cause := range action.Causes {
			causes = append(causes, engine.Cause{Note: cause.Note})
		}
	}

	return engine.BuildSummary{
		ID:                  b.ID,
		Building:            b.Building,
		Result:              b.result(),
		EstimatedDurationMs: b.EstimatedDuration,
		Causes:              causes,
	}
}

// ListBuilds returns the builds of the job in the order Jenkins reports them
func (c *Client) ListBuilds(ctx context.Context, jobName string) ([]engine.BuildSummary, error) {
	path, err := jobPath(jobName)
	if err != nil {
		return nil, err
	}

	respBody, err := c.doRequest(ctx, path+"/api/json?tree="+url.QueryEscape(buildsTree))
	if err != nil {
		return nil, fmt.Errorf("failed to list builds of %s: %w", jobName, err)
	}

	var job jenkinsJobBuilds
	if err := json.Unmarshal(respBody, &job); err != nil {
		return nil, fmt.Errorf("failed to parse builds of %s: %w", jobName, err)
	}

	summaries := make([]engine.BuildSummary, 0, len(job.Builds))
	for _, build := range job.Builds {
		summaries = append(summaries, build.summary())
	}

	return summaries, nil
}

// GetBuild returns a single build of the job by its ID
func (c *Client) GetBuild(ctx context.Context, jobName, id string) (*engine.BuildDetail, error) {
	path, err := jobPath(jobName)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("build ID cannot be empty")
	}

	respBody, err := c.doRequest(ctx, fmt.Sprintf("%s/%s/api/json", path, url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to get build %s #%s: %w", jobName, id, err)
	}

	var build jenkinsBuild
	if err := json.Unmarshal(respBody, &build); err != nil {
		return nil, fmt.Errorf("failed to parse build %s #%s: %w", jobName, id, err)
	}

	buildID := build.ID
	if buildID == "" {
		buildID = id
	}

	return &engine.BuildDetail{
		ID:                  buildID,
		Number:              build.Number,
		URL:                 build.URL,
		Building:            build.Building,
		Result:              build.result(),
		FullDisplayName:     build.FullDisplayName,
		EstimatedDurationMs: build.EstimatedDuration,
		Raw:                 json.RawMessage(respBody),
	}, nil
}
