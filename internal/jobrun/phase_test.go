package jobrun_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jenkinsrun/internal/config"
	"jenkinsrun/internal/jobrun"
)

func TestMonitorPhase(t *testing.T) {
	cases := map[string]struct {
		estimatedMs int64
		interval    time.Duration
		timeout     time.Duration
	}{
		"four minutes":     {240000, 60 * time.Second, 960 * time.Second},
		"two minutes":      {120000, 30 * time.Second, 480 * time.Second},
		"truncates":        {10999, 2 * time.Second, 40 * time.Second},
		"under four secs":  {3999, 0, 12 * time.Second},
		"zero":             {0, 0, 0},
		"unknown estimate": {-1, 0, 0},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			phase := jobrun.MonitorPhase(c.estimatedMs)
			assert.Equal(t, c.interval, phase.Interval)
			assert.Equal(t, c.timeout, phase.Timeout)
			assert.Equal(t, jobrun.ProbeMonitor, phase.Kind)
		})
	}
}

func TestTimingFromConfig(t *testing.T) {
	cfg := &config.Config{
		Search:  config.SearchConfig{Interval: 3, Timeout: 30},
		Monitor: config.MonitorConfig{MinInterval: 1, MinTimeout: 60},
	}

	timing := jobrun.TimingFromConfig(cfg)

	assert.Equal(t, jobrun.Timing{
		SearchInterval:     3 * time.Second,
		SearchTimeout:      30 * time.Second,
		MinMonitorInterval: time.Second,
		MinMonitorTimeout:  time.Minute,
	}, timing)
}

func TestProbeKindString(t *testing.T) {
	assert.Equal(t, "search", jobrun.ProbeSearch.String())
	assert.Equal(t, "monitor", jobrun.ProbeMonitor.String())
	assert.Equal(t, "unknown", jobrun.ProbeKind(7).String())
}
