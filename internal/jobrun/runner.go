package jobrun

import (
	"context"
	"fmt"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/logger"
)

// State is a step of a run's lifecycle
type State string

const (
	StateLaunched   State = "launched"
	StateSearching  State = "searching"
	StateDiscovered State = "discovered"
	StateMonitoring State = "monitoring"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateTimedOut   State = "timed_out"
)

// DesiredState is how far a run should go
type DesiredState string

const (
	// Present launches the build and returns without waiting
	Present DesiredState = "present"
	// Finished waits for the build to reach a terminal result
	Finished DesiredState = "finished"
)

// ParseDesiredState validates a desired state name
func ParseDesiredState(s string) (DesiredState, error) {
	switch DesiredState(s) {
	case Present, Finished:
		return DesiredState(s), nil
	default:
		return "", fmt.Errorf("invalid state %q (must be %s or %s)", s, Present, Finished)
	}
}

// Request describes one run
type Request struct {
	JobName    string
	BuildID    string // Existing build to monitor; empty launches a new build
	Parameters []engine.Parameter
	Desired    DesiredState
}

// Result is the outcome of a run
type Result struct {
	State   State               `json:"state"`
	Token   string              `json:"token,omitempty"`
	Launch  *engine.Launch      `json:"launch,omitempty"`
	Build   *engine.BuildDetail `json:"build,omitempty"`
	Success bool                `json:"success"`
}

// Message describes a failed build, naming its number and full display name
func (r *Result) Message() string {
	if r.Success {
		return ""
	}
	if r.Build == nil {
		return "Jenkins build failed"
	}
	return fmt.Sprintf("Jenkins build #%s failed. Full build name: %s", r.Build.ID, r.Build.FullDisplayName)
}

// Runner launches a job and follows it to completion
type Runner struct {
	api      engine.JobAPI
	poller   *Poller
	timing   Timing
	newToken func() string
}

// NewRunner creates a Runner that talks to api and waits on clk between probes
func NewRunner(api engine.JobAPI, clk clock.Clock, timing Timing) *Runner {
	return &Runner{
		api:      api,
		poller:   NewPoller(clk),
		timing:   timing,
		newToken: newCorrelationToken,
	}
}

// newCorrelationToken returns a time based UUID, falling back to a random one
func newCorrelationToken() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run executes one launch-and-wait cycle.
//
// Without a BuildID a new build is launched with a fresh correlation token.
// With Desired set to Finished the run then searches the job history for the
// token, and monitors the discovered build until it reports a result. A known
// BuildID skips launching and searching.
//
// A failed build is not an error: the Result has Success set to false. On a
// timeout the partial Result is returned along with ErrCorrelationTimeout or
// ErrMonitorTimeout.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	log := logger.With("job", req.JobName)
	result := &Result{}

	var (
		phase PhaseConfig
		key   string
	)

	if req.BuildID == "" {
		token := r.newToken()
		launch, err := r.api.IssueBuild(ctx, req.JobName, token, PrepareParams(req.Parameters))
		if err != nil {
			return nil, fmt.Errorf("failed to launch %s: %w", req.JobName, err)
		}

		result.State = StateLaunched
		result.Token = token
		result.Launch = launch
		log.Info("Build launched", "state", result.State, "token", token, "location", launch.Location)

		phase, key = r.timing.searchPhase(), token
	} else {
		result.State = StateDiscovered
		result.Launch = &engine.Launch{Headers: map[string]string{}}
		result.Build = &engine.BuildDetail{ID: req.BuildID}

		phase, key = r.timing.directMonitorPhase(), req.BuildID
	}

	if req.Desired != Finished {
		result.Success = true
		return result, nil
	}

	for {
		if phase.Kind == ProbeSearch {
			result.State = StateSearching
		} else {
			result.State = StateMonitoring
		}
		log.Info("Polling build", "state", result.State, "key", key,
			"interval", phase.Interval.String(), "timeout", phase.Timeout.String(),
			"attempts", Attempts(phase.Interval, phase.Timeout))

		outcome := r.poller.Poll(newProber(ctx, phase.Kind, r.api, req.JobName), key, phase.Interval, phase.Timeout)

		if !outcome.Found {
			result.State = StateTimedOut
			log.Error("Gave up waiting for build", "phase", phase.Kind.String(), "key", key, "timeout", phase.Timeout.String())

			if phase.Kind == ProbeSearch {
				return result, fmt.Errorf("%w: no build with cause %s appeared within %s", ErrCorrelationTimeout, key, phase.Timeout)
			}
			return result, fmt.Errorf("%w: build #%s reported no result within %s", ErrMonitorTimeout, key, phase.Timeout)
		}

		if phase.Kind == ProbeMonitor {
			result.Build = outcome.Build
			result.Success = outcome.Success
			if outcome.Success {
				result.State = StateSucceeded
			} else {
				result.State = StateFailed
			}
			log.Info("Build finished", "state", result.State, "build_id", outcome.Build.ID, "result", outcome.Build.Result)
			return result, nil
		}

		// The token is no longer needed once the real build ID is known
		result.State = StateDiscovered
		result.Build = outcome.Build
		key = outcome.Build.ID
		phase = r.timing.discoveredMonitorPhase(outcome.Build.EstimatedDurationMs)
		log.Info("Build discovered", "state", result.State, "build_id", key, "estimated_duration_ms", outcome.Build.EstimatedDurationMs)
	}
}
