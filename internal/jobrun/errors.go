package jobrun

import "errors"

// Both timeouts share the message shown to users; match them with errors.Is.
var (
	// ErrCorrelationTimeout means no build carrying the correlation token appeared in time
	ErrCorrelationTimeout = errors.New("could not find the Jenkins job to monitor")

	// ErrMonitorTimeout means the discovered build did not reach a result in time
	ErrMonitorTimeout = errors.New("could not find the Jenkins job to monitor")
)
