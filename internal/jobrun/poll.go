package jobrun

import (
	"time"

	"code.cloudfoundry.org/clock"

	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/logger"
)

// Outcome is the result of a single probe
type Outcome struct {
	Found   bool
	Success bool
	Build   *engine.BuildDetail
}

// Prober checks once whether the thing identified by key is available.
// Failures to reach the server are reported as a not found outcome.
type Prober interface {
	Probe(key string) Outcome
}

// ProberFunc adapts a function to the Prober interface
type ProberFunc func(key string) Outcome

// Probe calls f(key)
func (f ProberFunc) Probe(key string) Outcome {
	return f(key)
}

// Poller repeats a probe at a fixed interval until it reports found or the
// time budget runs out. The calling goroutine is blocked while waiting.
type Poller struct {
	clock clock.Clock
}

// NewPoller creates a Poller that waits on the given clock
func NewPoller(clk clock.Clock) *Poller {
	return &Poller{clock: clk}
}

// Attempts returns how many probes fit in timeout at the given interval.
// A non-positive interval or timeout allows no probes at all.
func Attempts(interval, timeout time.Duration) int {
	if interval <= 0 || timeout <= 0 {
		return 0
	}
	return int(timeout / interval)
}

// Poll probes key up to Attempts(interval, timeout) times and returns the
// first found outcome. If no attempt finds it, the returned outcome has
// Found set to false.
func (p *Poller) Poll(prober Prober, key string, interval, timeout time.Duration) Outcome {
	attempts := Attempts(interval, timeout)

	for attempt := 1; attempt <= attempts; attempt++ {
		outcome := prober.Probe(key)
		if outcome.Found {
			return outcome
		}

		logger.Debug("Probe did not find a result", "key", key, "attempt", attempt, "attempts", attempts)

		// No wait after the last attempt
		if attempt < attempts {
			p.clock.Sleep(interval)
		}
	}

	return Outcome{Found: false}
}
