package jobrun

import (
	"time"

	"jenkinsrun/internal/config"
)

// ProbeKind selects what a phase probes for
type ProbeKind int

const (
	// ProbeSearch looks for the build carrying a correlation token
	ProbeSearch ProbeKind = iota
	// ProbeMonitor waits for a known build to reach a terminal result
	ProbeMonitor
)

func (k ProbeKind) String() string {
	switch k {
	case ProbeSearch:
		return "search"
	case ProbeMonitor:
		return "monitor"
	default:
		return "unknown"
	}
}

// PhaseConfig is the polling timing of one phase
type PhaseConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	Kind     ProbeKind
}

// Timing holds the caller supplied timing of a run
type Timing struct {
	SearchInterval time.Duration
	SearchTimeout  time.Duration

	// Lower bounds applied to the derived monitor timing. Zero keeps the derived value.
	MinMonitorInterval time.Duration
	MinMonitorTimeout  time.Duration
}

// DefaultTiming polls every 5 seconds for up to 70 seconds
var DefaultTiming = Timing{
	SearchInterval: 5 * time.Second,
	SearchTimeout:  70 * time.Second,
}

// TimingFromConfig converts the configured seconds into a Timing
func TimingFromConfig(cfg *config.Config) Timing {
	return Timing{
		SearchInterval:     time.Duration(cfg.Search.Interval) * time.Second,
		SearchTimeout:      time.Duration(cfg.Search.Timeout) * time.Second,
		MinMonitorInterval: time.Duration(cfg.Monitor.MinInterval) * time.Second,
		MinMonitorTimeout:  time.Duration(cfg.Monitor.MinTimeout) * time.Second,
	}
}

// searchPhase is the timing used to discover a launched build
func (t Timing) searchPhase() PhaseConfig {
	return PhaseConfig{
		Interval: t.SearchInterval,
		Timeout:  t.SearchTimeout,
		Kind:     ProbeSearch,
	}
}

// directMonitorPhase is used when the build ID is already known and no
// duration estimate is available.
func (t Timing) directMonitorPhase() PhaseConfig {
	return PhaseConfig{
		Interval: t.SearchInterval,
		Timeout:  t.SearchTimeout,
		Kind:     ProbeMonitor,
	}
}

// discoveredMonitorPhase derives the monitor timing of a discovered build and applies the floors
func (t Timing) discoveredMonitorPhase(estimatedDurationMs int64) PhaseConfig {
	phase := MonitorPhase(estimatedDurationMs)
	if phase.Interval < t.MinMonitorInterval {
		phase.Interval = t.MinMonitorInterval
	}
	if phase.Timeout < t.MinMonitorTimeout {
		phase.Timeout = t.MinMonitorTimeout
	}
	return phase
}

// MonitorPhase derives the monitor timing from a build's estimated duration:
// an interval of a quarter of the estimate and a window of four times it,
// both truncated to whole seconds. Unknown (negative) estimates count as zero.
func MonitorPhase(estimatedDurationMs int64) PhaseConfig {
	if estimatedDurationMs < 0 {
		estimatedDurationMs = 0
	}

	intervalSeconds := estimatedDurationMs / 4000
	timeoutSeconds := (estimatedDurationMs / 1000) * 4

	return PhaseConfig{
		Interval: time.Duration(intervalSeconds) * time.Second,
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
		Kind:     ProbeMonitor,
	}
}
