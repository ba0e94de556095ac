package jobrun_test

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"

	"jenkinsrun/internal/engine"
)

// recordingClock advances a fake clock on Sleep and remembers every wait
type recordingClock struct {
	*fakeclock.FakeClock
	sleeps []time.Duration
}

func newRecordingClock() *recordingClock {
	return &recordingClock{FakeClock: fakeclock.NewFakeClock(time.Unix(0, 123))}
}

func (c *recordingClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.Increment(d)
}

type issuedBuild struct {
	jobName string
	token   string
	params  map[string]string
}

// fakeJobAPI serves canned responses; call counters start at zero
type fakeJobAPI struct {
	issueErr   error
	listBuilds func(call int) ([]engine.BuildSummary, error)
	getBuild   func(call int, id string) (*engine.BuildDetail, error)

	issued    []issuedBuild
	listCalls int
	getCalls  int
}

func (f *fakeJobAPI) IssueBuild(ctx context.Context, jobName, token string, params map[string]string) (*engine.Launch, error) {
	f.issued = append(f.issued, issuedBuild{jobName: jobName, token: token, params: params})
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return &engine.Launch{
		Token:    token,
		Location: "http://jenkins.example.com/queue/item/1/",
		Headers:  map[string]string{"Location": "http://jenkins.example.com/queue/item/1/"},
	}, nil
}

func (f *fakeJobAPI) ListBuilds(ctx context.Context, jobName string) ([]engine.BuildSummary, error) {
	call := f.listCalls
	f.listCalls++
	if f.listBuilds == nil {
		return nil, nil
	}
	return f.listBuilds(call)
}

func (f *fakeJobAPI) GetBuild(ctx context.Context, jobName, id string) (*engine.BuildDetail, error) {
	call := f.getCalls
	f.getCalls++
	if f.getBuild == nil {
		return &engine.BuildDetail{ID: id}, nil
	}
	return f.getBuild(call, id)
}

func note(s string) *string {
	return &s
}

func summary(id string, estimatedMs int64, notes ...string) engine.BuildSummary {
	causes := make([]engine.Cause, 0, len(notes))
	for _, n := range notes {
		causes = append(causes, engine.Cause{Note: note(n)})
	}
	return engine.BuildSummary{ID: id, Building: true, EstimatedDurationMs: estimatedMs, Causes: causes}
}
