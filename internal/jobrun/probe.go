package jobrun

import (
	"context"
	"strings"

	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/logger"
)

// searchProber lists the job's builds and looks for the correlation token
type searchProber struct {
	ctx     context.Context
	api     engine.JobAPI
	jobName string
}

func (p *searchProber) Probe(token string) Outcome {
	builds, err := p.api.ListBuilds(p.ctx, p.jobName)
	if err != nil {
		logger.Warn("Build search probe failed", "job", p.jobName, "error", err)
		return Outcome{}
	}

	build := FindByToken(builds, token)
	if build == nil {
		return Outcome{}
	}

	return Outcome{Found: true, Success: true, Build: build.Detail()}
}

// monitorProber fetches a build and reports found once it has a result
type monitorProber struct {
	ctx     context.Context
	api     engine.JobAPI
	jobName string
}

func (p *monitorProber) Probe(id string) Outcome {
	build, err := p.api.GetBuild(p.ctx, p.jobName, id)
	if err != nil {
		logger.Warn("Build monitor probe failed", "job", p.jobName, "build_id", id, "error", err)
		return Outcome{}
	}

	if build.Result == "" {
		return Outcome{}
	}

	return Outcome{
		Found:   true,
		Success: strings.EqualFold(build.Result, "SUCCESS"),
		Build:   build,
	}
}

// newProber returns the prober of the given kind bound to one job
func newProber(ctx context.Context, kind ProbeKind, api engine.JobAPI, jobName string) Prober {
	switch kind {
	case ProbeMonitor:
		return &monitorProber{ctx: ctx, api: api, jobName: jobName}
	default:
		return &searchProber{ctx: ctx, api: api, jobName: jobName}
	}
}
